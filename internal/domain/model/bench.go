package model

// Bench 对应 benches 表（物理测试台架记录）。
type Bench struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"size:128" json:"name"`
	BenchType string `gorm:"column:bench_type;size:64" json:"bench_type"`
}

func (Bench) TableName() string { return "benches" }
