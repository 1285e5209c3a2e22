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

// PlatformDAO is a data access object for the platform reference table.
type PlatformDAO struct{ DB *gorm.DB }

func NewPlatformDAO(db *gorm.DB) *PlatformDAO { return &PlatformDAO{DB: db} }

func (d *PlatformDAO) tracer() trace.Tracer { return otel.Tracer("dao.platform") }

// FindByName returns the platform with the given name, (nil, nil) if absent.
func (d *PlatformDAO) FindByName(ctx context.Context, name string) (*model.Platform, error) {
	var p model.Platform
	if err := d.DB.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (d *PlatformDAO) FindByID(ctx context.Context, id int64) (*model.Platform, error) {
	var p model.Platform
	if err := d.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// InsertIgnore inserts the platform and is a no-op on a name conflict, so two
// concurrent first resolutions of the same name both converge on one row.
// Callers must read back by name afterwards; the returned struct's ID is not
// populated on the conflict path.
func (d *PlatformDAO) InsertIgnore(ctx context.Context, p *model.Platform) error {
	ctx, span := d.tracer().Start(ctx, "PlatformDAO.InsertIgnore")
	defer span.End()
	err := d.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(p).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert platform name=%q: %w", p.Name, err)
	}
	return nil
}

func (d *PlatformDAO) List(ctx context.Context) ([]model.Platform, error) {
	var list []model.Platform
	if err := d.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
