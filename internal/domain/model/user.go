package model

// User 对应 users 表。组外用户 (group_id NULL) 是合法状态，解析权限时落到 Default。
type User struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"size:128" json:"name"`
	Username *string `gorm:"size:64" json:"username,omitempty"` // external account name, optional
	Email    string  `gorm:"size:128" json:"email"`
	GroupID  *int64  `gorm:"column:group_id" json:"group_id,omitempty"`
}

func (User) TableName() string { return "users" }
