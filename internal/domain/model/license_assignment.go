package model

// LicenseAssignment 许可证的独占绑定：一条记录恰好引用 Host 或 VM 之一。
// license_id 唯一索引保证同一许可证同时至多一条绑定。
type LicenseAssignment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	LicenseID int64  `gorm:"column:license_id;uniqueIndex:uk_license_assignment" json:"license_id"`
	HostID    *int64 `gorm:"column:host_id" json:"host_id,omitempty"`
	VMID      *int64 `gorm:"column:vm_id" json:"vm_id,omitempty"`
}

func (LicenseAssignment) TableName() string { return "license_assignments" }
