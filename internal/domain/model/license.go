package model

// License 软件许可证目录条目。
type License struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:128" json:"name"`
	Vendor      string `gorm:"size:128" json:"vendor"`
	LicenseType string `gorm:"column:license_type;size:50" json:"license_type"` // per_user, per_core, subscription
	Seats       int    `gorm:"column:seats" json:"seats"`
}

func (License) TableName() string { return "licenses" }
