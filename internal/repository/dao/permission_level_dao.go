package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type PermissionLevelDAO struct{ DB *gorm.DB }

func NewPermissionLevelDAO(db *gorm.DB) *PermissionLevelDAO { return &PermissionLevelDAO{DB: db} }

func (d *PermissionLevelDAO) FindByID(ctx context.Context, id int64) (*model.PermissionLevel, error) {
	var l model.PermissionLevel
	if err := d.DB.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
