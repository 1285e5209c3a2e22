package dao

import (
	"context"
	"fmt"

	"go-benchadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SoftwareAssignmentDAO handles the host/software join table.
type SoftwareAssignmentDAO struct{ DB *gorm.DB }

func NewSoftwareAssignmentDAO(db *gorm.DB) *SoftwareAssignmentDAO {
	return &SoftwareAssignmentDAO{DB: db}
}

func (d *SoftwareAssignmentDAO) tracer() trace.Tracer { return otel.Tracer("dao.software_assignment") }

// InsertIgnore inserts the pair, no-op if it already exists (re-assigning is
// the intentional idempotent case).
func (d *SoftwareAssignmentDAO) InsertIgnore(ctx context.Context, hostID, softwareID int64) error {
	ctx, span := d.tracer().Start(ctx, "SoftwareAssignmentDAO.InsertIgnore")
	defer span.End()
	a := model.SoftwareAssignment{HostID: hostID, SoftwareID: softwareID}
	err := d.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "host_id"}, {Name: "software_id"}},
			DoNothing: true,
		}).
		Create(&a).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("assign software host=%d software=%d: %w", hostID, softwareID, err)
	}
	return nil
}

// Delete removes the pair and reports how many rows went away so the caller
// can distinguish a no-op unassign.
func (d *SoftwareAssignmentDAO) Delete(ctx context.Context, hostID, softwareID int64) (int64, error) {
	res := d.DB.WithContext(ctx).Where("host_id = ? AND software_id = ?", hostID, softwareID).Delete(&model.SoftwareAssignment{})
	if res.Error != nil {
		return 0, fmt.Errorf("unassign software host=%d software=%d: %w", hostID, softwareID, res.Error)
	}
	return res.RowsAffected, nil
}

// ListByHost returns the software ids assigned to a host.
func (d *SoftwareAssignmentDAO) ListByHost(ctx context.Context, hostID int64) ([]int64, error) {
	var ids []int64
	if err := d.DB.WithContext(ctx).Model(&model.SoftwareAssignment{}).Where("host_id = ?", hostID).Pluck("software_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
