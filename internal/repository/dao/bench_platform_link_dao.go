package dao

import (
	"context"
	"errors"
	"fmt"

	"go-benchadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BenchPlatformLinkDAO manages the at-most-one platform classification per bench.
type BenchPlatformLinkDAO struct{ DB *gorm.DB }

func NewBenchPlatformLinkDAO(db *gorm.DB) *BenchPlatformLinkDAO {
	return &BenchPlatformLinkDAO{DB: db}
}

func (d *BenchPlatformLinkDAO) tracer() trace.Tracer { return otel.Tracer("dao.bench_platform_link") }

func (d *BenchPlatformLinkDAO) WithTx(tx *gorm.DB) *BenchPlatformLinkDAO {
	if tx == nil {
		return d
	}
	return &BenchPlatformLinkDAO{DB: tx}
}

// FindByBench returns the current link for a bench, (nil, nil) if unclassified.
func (d *BenchPlatformLinkDAO) FindByBench(ctx context.Context, benchID int64) (*model.BenchPlatformLink, error) {
	var l model.BenchPlatformLink
	if err := d.DB.WithContext(ctx).Where("bench_id = ?", benchID).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// Upsert writes the bench's classification, overwriting an existing row so
// repeated identical updates stay idempotent instead of hitting the unique index.
func (d *BenchPlatformLinkDAO) Upsert(ctx context.Context, benchID, platformID int64) error {
	ctx, span := d.tracer().Start(ctx, "BenchPlatformLinkDAO.Upsert")
	defer span.End()
	link := model.BenchPlatformLink{BenchID: benchID, PlatformID: platformID}
	err := d.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bench_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"platform_id"}),
		}).
		Create(&link).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert bench platform link bench=%d platform=%d: %w", benchID, platformID, err)
	}
	return nil
}

// DeleteByBench removes the classification (absent target platform).
func (d *BenchPlatformLinkDAO) DeleteByBench(ctx context.Context, benchID int64) error {
	return d.DB.WithContext(ctx).Where("bench_id = ?", benchID).Delete(&model.BenchPlatformLink{}).Error
}
