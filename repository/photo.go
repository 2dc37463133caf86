package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-recipe-service/entity"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, photo *entity.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *PhotoRepository) SetFilename(ctx context.Context, id uint, filename string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Photo{}).
		Where("id = ?", id).
		Update("filename", filename).Error
}

func (r *PhotoRepository) FindActiveByID(ctx context.Context, id uint) (*entity.Photo, error) {
	var photo entity.Photo
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) FlagDeleted(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Photo{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
