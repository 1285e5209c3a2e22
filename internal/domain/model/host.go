package model

import "strings"

// Host statuses. Status is always derived via DeriveStatus on the write path,
// never asserted independently.
const (
	StatusOnline  = "online"
	StatusInUse   = "in_use"
	StatusOffline = "offline"
)

// Host 对应 hosts 表（UI 里的 "PC overview"）。bench_id 可为 NULL：允许未挂台架的主机。
type Host struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	BenchID    *int64 `gorm:"column:bench_id" json:"bench_id,omitempty"`
	Name       string `gorm:"size:128" json:"name"`
	Info       string `gorm:"type:text" json:"info"`
	Status     string `gorm:"size:16" json:"status"`
	ActiveUser string `gorm:"column:active_user;size:128" json:"active_user"`
}

func (Host) TableName() string { return "hosts" }

// DeriveStatus computes a host status from its active-user field and an
// explicit offline override. Shared by every write path so create and update
// cannot drift apart.
func DeriveStatus(activeUser string, offline bool) string {
	if offline {
		return StatusOffline
	}
	if strings.TrimSpace(activeUser) != "" {
		return StatusInUse
	}
	return StatusOnline
}
