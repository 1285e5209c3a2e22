package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type LicenseDAO struct{ DB *gorm.DB }

func NewLicenseDAO(db *gorm.DB) *LicenseDAO { return &LicenseDAO{DB: db} }

func (d *LicenseDAO) FindByID(ctx context.Context, id int64) (*model.License, error) {
	var l model.License
	if err := d.DB.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (d *LicenseDAO) List(ctx context.Context) ([]model.License, error) {
	var list []model.License
	if err := d.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
