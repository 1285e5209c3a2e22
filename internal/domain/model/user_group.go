package model

// UserGroup 对应 user_groups 表，每组绑定一个权限级别。
type UserGroup struct {
	ID                int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string `gorm:"size:64" json:"name"`
	PermissionLevelID int64  `gorm:"column:permission_level_id" json:"permission_level_id"`
}

func (UserGroup) TableName() string { return "user_groups" }
