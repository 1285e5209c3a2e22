package auditlog

import (
	"context"
	"encoding/json"
	"time"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/logging"
	"go-benchadmin/internal/mq/kafka"
	"go-benchadmin/internal/repository/dao"
	"go-benchadmin/internal/server/http/middleware/observability"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer 审计事件落库：从 Kafka 读取变更事件写入 audit_events 表。
// 单条失败记日志后继续，不阻塞分区。
type Consumer struct {
	consumer *kafka.Consumer
	DAO      *dao.AuditEventDAO
	Log      *logging.Logger
}

func NewConsumer(cfg Config, d *dao.AuditEventDAO, lg *logging.Logger) *Consumer {
	c := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topics:  []string{cfg.Topic},
	})
	return &Consumer{consumer: c, DAO: d, Log: lg}
}

func (c *Consumer) Run(ctx context.Context) error {
	return c.consumer.Start(ctx, c.handle)
}

func (c *Consumer) handle(ctx context.Context, m kafkaGo.Message) error {
	var e observability.AuditEvent
	if err := json.Unmarshal(m.Value, &e); err != nil {
		// 毒消息只记日志，不让它卡住分区
		c.Log.Warn("audit consumer unmarshal", zap.Error(err))
		return nil
	}
	var ts int64
	if t, err := time.Parse(time.RFC3339, e.Time); err == nil {
		ts = t.Unix()
	} else {
		ts = time.Now().Unix()
	}
	rec := model.AuditEvent{
		EventID:   e.EventID,
		UID:       e.UserID,
		URL:       e.Path,
		Method:    e.Method,
		Status:    e.Status,
		LatencyMs: e.LatencyMs,
		IP:        e.IP,
		Data:      e.Body,
		AddTime:   ts,
	}
	if err := c.DAO.Create(ctx, &rec); err != nil {
		c.Log.Error("audit consumer save", zap.Error(err), zap.String("event_id", e.EventID))
		return err
	}
	return nil
}

func (c *Consumer) Close() error { return c.consumer.Close() }
