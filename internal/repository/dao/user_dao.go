package dao

import (
	"context"
	"errors"

	"go-benchadmin/internal/domain/model"

	"gorm.io/gorm"
)

// UserDAO is a data access object for users.
type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO { return &UserDAO{DB: db} }

// FindByID finds a user by primary id. Missing user is (nil, nil).
func (d *UserDAO) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := d.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
