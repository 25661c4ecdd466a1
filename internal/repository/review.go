package repository

import (
	"context"
	"errors"

	"campwild/internal/cache"
	"campwild/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines interface for review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListByCampground(ctx context.Context, campgroundID uint) ([]*models.Review, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Review, error)
	Delete(ctx context.Context, id uint) error
	DeleteByCampground(ctx context.Context, campgroundID uint) error
	DeleteByAuthor(ctx context.Context, authorID uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if err == nil {
		cache.Invalidate(ctx, cache.CampgroundKey(review.CampgroundID))
	}
	return err
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Author").First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByCampground(ctx context.Context, campgroundID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Where("campground_id = ?", campgroundID).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := readDB(r.db).WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

func (r *reviewRepository) DeleteByCampground(ctx context.Context, campgroundID uint) error {
	err := r.db.WithContext(ctx).
		Where("campground_id = ?", campgroundID).
		Delete(&models.Review{}).Error
	if err == nil {
		cache.Invalidate(ctx, cache.CampgroundKey(campgroundID))
	}
	return err
}

func (r *reviewRepository) DeleteByAuthor(ctx context.Context, authorID uint) error {
	return r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Delete(&models.Review{}).Error
}
