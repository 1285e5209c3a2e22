package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type BenchDAO struct{ DB *gorm.DB }

func NewBenchDAO(db *gorm.DB) *BenchDAO { return &BenchDAO{DB: db} }

// WithTx returns a DAO bound to the given transaction (or same instance if tx nil).
func (d *BenchDAO) WithTx(tx *gorm.DB) *BenchDAO {
	if tx == nil {
		return d
	}
	return &BenchDAO{DB: tx}
}

func (d *BenchDAO) Create(ctx context.Context, b *model.Bench) error {
	return d.DB.WithContext(ctx).Create(b).Error
}

func (d *BenchDAO) FindByID(ctx context.Context, id int64) (*model.Bench, error) {
	var b model.Bench
	if err := d.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Update overwrites name and bench_type.
func (d *BenchDAO) Update(ctx context.Context, b *model.Bench) error {
	return d.DB.WithContext(ctx).Model(&model.Bench{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":       b.Name,
		"bench_type": b.BenchType,
	}).Error
}
