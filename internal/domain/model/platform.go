package model

// Platform 对应 platforms 表。行只增不删，name 唯一（惰性创建见 PlatformService）。
type Platform struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:64;uniqueIndex:uk_platform_name" json:"name"`
}

func (Platform) TableName() string { return "platforms" }
