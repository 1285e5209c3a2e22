package model

// SoftwareAssignment host 与软件目录的多对多 join，(host_id, software_id) 唯一。
type SoftwareAssignment struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	HostID     int64 `gorm:"column:host_id;uniqueIndex:uk_software_assignment,priority:1" json:"host_id"`
	SoftwareID int64 `gorm:"column:software_id;uniqueIndex:uk_software_assignment,priority:2" json:"software_id"`
}

func (SoftwareAssignment) TableName() string { return "software_assignments" }
