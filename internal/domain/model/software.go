package model

// Software 软件目录条目（参考数据）。
type Software struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:128" json:"name"`
	Version     string `gorm:"size:64" json:"version"`
	Description string `gorm:"type:text" json:"description"`
}

func (Software) TableName() string { return "software" }
