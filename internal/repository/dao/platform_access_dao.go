package dao

import (
	"context"
	"fmt"

	"go-benchadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// PlatformAccessDAO handles group to platform membership rows.
type PlatformAccessDAO struct{ DB *gorm.DB }

func NewPlatformAccessDAO(db *gorm.DB) *PlatformAccessDAO { return &PlatformAccessDAO{DB: db} }

func (d *PlatformAccessDAO) tracer() trace.Tracer { return otel.Tracer("dao.platform_access") }

// ListPlatformIDsByGroup returns the platform ids a group may act on.
func (d *PlatformAccessDAO) ListPlatformIDsByGroup(ctx context.Context, gid int64) ([]int64, error) {
	ctx, span := d.tracer().Start(ctx, "PlatformAccessDAO.ListPlatformIDsByGroup")
	defer span.End()
	var ids []int64
	if err := d.DB.WithContext(ctx).Model(&model.PlatformAccess{}).Where("group_id = ?", gid).Pluck("platform_id", &ids).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list platform ids by group gid=%d: %w", gid, err)
	}
	return ids, nil
}
