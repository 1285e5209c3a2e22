package observability

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"go-benchadmin/internal/mq/kafka"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var skipAuditPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

var sensitiveKeys = []string{"password", "passwd", "pwd", "token", "authorization", "license_key"}

// AuditEvent 是发往审计 topic 的载荷，消费者原样落库。
type AuditEvent struct {
	EventID   string `json:"event_id"`
	UserID    int64  `json:"user_id"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Status    int    `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	IP        string `json:"ip"`
	Body      string `json:"body"`
	Time      string `json:"time"`
}

// Audit 把写操作（POST/PUT/DELETE）异步记录到 Kafka。发送失败只影响审计，
// 不影响请求本身。
func Audit(p *kafka.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPath := c.Request.URL.Path
		if _, ok := skipAuditPaths[rawPath]; ok {
			c.Next()
			return
		}
		switch c.Request.Method {
		case "POST", "PUT", "DELETE", "PATCH":
		default:
			c.Next()
			return
		}
		start := time.Now()
		var bodyBytes []byte
		if c.Request.Body != nil {
			b, _ := io.ReadAll(io.LimitReader(c.Request.Body, 4096))
			bodyBytes = b
			c.Request.Body = io.NopCloser(bytes.NewBuffer(b))
		}
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = rawPath
		}
		e := AuditEvent{
			EventID:   uuid.NewString(),
			UserID:    c.GetInt64("user_id"),
			Path:      path,
			Method:    c.Request.Method,
			Status:    c.Writer.Status(),
			LatencyMs: time.Since(start).Milliseconds(),
			IP:        c.ClientIP(),
			Body:      sanitizeJSON(bodyBytes),
			Time:      time.Now().Format(time.RFC3339),
		}
		b, _ := json.Marshal(e)
		headers := map[string]string{}
		if traceID, ok := c.Get(TraceIDKey); ok {
			headers["trace_id"] = traceID.(string)
		}
		_ = p.SendWithHeaders(c.Request.Context(), []byte(e.EventID), b, headers)
	}
}

func sanitizeJSON(src []byte) string {
	if len(src) == 0 {
		return ""
	}
	var m interface{}
	if json.Unmarshal(src, &m) != nil {
		return string(src)
	}
	sanitizeValue(&m)
	b, err := json.Marshal(m)
	if err != nil {
		return string(src)
	}
	return string(b)
}

func sanitizeValue(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, vv := range val {
			masked := false
			for _, s := range sensitiveKeys {
				if k == s {
					val[k] = "***"
					masked = true
					break
				}
			}
			if !masked {
				sanitizeValue(&vv)
				val[k] = vv
			}
		}
	case []interface{}:
		for i, elem := range val {
			sanitizeValue(&elem)
			val[i] = elem
		}
	}
}
