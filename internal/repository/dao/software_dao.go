package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type SoftwareDAO struct{ DB *gorm.DB }

func NewSoftwareDAO(db *gorm.DB) *SoftwareDAO { return &SoftwareDAO{DB: db} }

func (d *SoftwareDAO) FindByID(ctx context.Context, id int64) (*model.Software, error) {
	var s model.Software
	if err := d.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (d *SoftwareDAO) List(ctx context.Context) ([]model.Software, error) {
	var list []model.Software
	if err := d.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
