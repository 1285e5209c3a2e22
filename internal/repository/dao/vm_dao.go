package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type VMDAO struct{ DB *gorm.DB }

func NewVMDAO(db *gorm.DB) *VMDAO { return &VMDAO{DB: db} }

func (d *VMDAO) FindByID(ctx context.Context, id int64) (*model.VM, error) {
	var vm model.VM
	if err := d.DB.WithContext(ctx).First(&vm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vm, nil
}

func (d *VMDAO) List(ctx context.Context) ([]model.VM, error) {
	var list []model.VM
	if err := d.DB.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
