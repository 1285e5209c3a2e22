package model

// AuditEvent 持久化的变更审计记录，由 Kafka 消费者落库。
type AuditEvent struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   string `gorm:"column:event_id;size:36;index" json:"event_id"`
	UID       int64  `gorm:"column:uid;index" json:"uid"`
	URL       string `gorm:"size:255" json:"url"`
	Method    string `gorm:"size:10" json:"method"`
	Status    int    `gorm:"column:status" json:"status"`
	LatencyMs int64  `gorm:"column:latency_ms" json:"latency_ms"`
	IP        string `gorm:"size:64" json:"ip"`
	Data      string `gorm:"type:text" json:"data"`
	AddTime   int64  `gorm:"column:add_time;index" json:"add_time"`
}

func (AuditEvent) TableName() string { return "audit_events" }
