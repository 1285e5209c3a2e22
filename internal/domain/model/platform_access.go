package model

// PlatformAccess 用户组与平台的多对多关系 (group 可操作哪些平台)。
type PlatformAccess struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID    int64 `gorm:"column:group_id;uniqueIndex:uk_platform_access,priority:1" json:"group_id"`
	PlatformID int64 `gorm:"column:platform_id;uniqueIndex:uk_platform_access,priority:2" json:"platform_id"`
}

func (PlatformAccess) TableName() string { return "platform_access" }
