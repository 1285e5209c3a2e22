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
)

// LicenseAssignmentDAO handles the exclusive license binding.
type LicenseAssignmentDAO struct{ DB *gorm.DB }

func NewLicenseAssignmentDAO(db *gorm.DB) *LicenseAssignmentDAO {
	return &LicenseAssignmentDAO{DB: db}
}

func (d *LicenseAssignmentDAO) tracer() trace.Tracer { return otel.Tracer("dao.license_assignment") }

func (d *LicenseAssignmentDAO) WithTx(tx *gorm.DB) *LicenseAssignmentDAO {
	if tx == nil {
		return d
	}
	return &LicenseAssignmentDAO{DB: tx}
}

// FindByLicense returns the current binding, (nil, nil) if unassigned.
func (d *LicenseAssignmentDAO) FindByLicense(ctx context.Context, licenseID int64) (*model.LicenseAssignment, error) {
	var a model.LicenseAssignment
	if err := d.DB.WithContext(ctx).Where("license_id = ?", licenseID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// DeleteByLicense clears any binding regardless of target type.
func (d *LicenseAssignmentDAO) DeleteByLicense(ctx context.Context, licenseID int64) error {
	return d.DB.WithContext(ctx).Where("license_id = ?", licenseID).Delete(&model.LicenseAssignment{}).Error
}

func (d *LicenseAssignmentDAO) Create(ctx context.Context, a *model.LicenseAssignment) error {
	ctx, span := d.tracer().Start(ctx, "LicenseAssignmentDAO.Create")
	defer span.End()
	if err := d.DB.WithContext(ctx).Create(a).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create license assignment license=%d: %w", a.LicenseID, err)
	}
	return nil
}
