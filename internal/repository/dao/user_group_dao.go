package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

type UserGroupDAO struct{ DB *gorm.DB }

func NewUserGroupDAO(db *gorm.DB) *UserGroupDAO { return &UserGroupDAO{DB: db} }

func (d *UserGroupDAO) FindByID(ctx context.Context, id int64) (*model.UserGroup, error) {
	var g model.UserGroup
	if err := d.DB.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
