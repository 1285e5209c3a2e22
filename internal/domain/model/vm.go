package model

// VM 对应 vms 表。虚拟机只作为许可证绑定目标与只读列表出现。
type VM struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	HostID *int64 `gorm:"column:host_id" json:"host_id,omitempty"`
	Name   string `gorm:"size:128" json:"name"`
	Info   string `gorm:"type:text" json:"info"`
}

func (VM) TableName() string { return "vms" }
