package dao

import (
	"context"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type AuditEventDAO struct{ DB *gorm.DB }

func NewAuditEventDAO(db *gorm.DB) *AuditEventDAO { return &AuditEventDAO{DB: db} }

func (d *AuditEventDAO) Create(ctx context.Context, e *model.AuditEvent) error {
	return d.DB.WithContext(ctx).Create(e).Error
}

// List returns recent events, newest first.
func (d *AuditEventDAO) List(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []model.AuditEvent
	if err := d.DB.WithContext(ctx).Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
