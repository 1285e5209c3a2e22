package model

// BenchPlatformLink 台架当前的平台归类，一台 bench 至多一条。
// bench_id 上的唯一索引配合 upsert 保证重复写入收敛而不是报错。
type BenchPlatformLink struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BenchID    int64 `gorm:"column:bench_id;uniqueIndex:uk_bench_platform" json:"bench_id"`
	PlatformID int64 `gorm:"column:platform_id" json:"platform_id"`
}

func (BenchPlatformLink) TableName() string { return "bench_platform_links" }
