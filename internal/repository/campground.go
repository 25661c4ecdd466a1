package repository

import (
	"context"
	"errors"

	"campwild/internal/cache"
	"campwild/internal/models"

	"gorm.io/gorm"
)

// CampgroundRepository defines the interface for campground data operations
type CampgroundRepository interface {
	Create(ctx context.Context, campground *models.Campground) error
	GetByID(ctx context.Context, id uint) (*models.Campground, error)
	GetLean(ctx context.Context, id uint) (*models.Campground, error)
	List(ctx context.Context, limit, offset int, sort string) ([]*models.Campground, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Campground, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Campground, error)
	Update(ctx context.Context, campground *models.Campground) error
	AddImages(ctx context.Context, campgroundID uint, images []models.Image) error
	RemoveImagesByFilename(ctx context.Context, campgroundID uint, filenames []string) ([]models.Image, error)
	Delete(ctx context.Context, id uint) error
}

// defaultListLimit is the page size the index view requests; only that page
// is cached.
const defaultListLimit = 20

// campgroundRepository implements CampgroundRepository
type campgroundRepository struct {
	db *gorm.DB
}

// isDefaultSort reports whether sort resolves to the newest-first ordering
// used by the index view.
func isDefaultSort(sort string) bool {
	return sort == "" || sort == "new"
}

// NewCampgroundRepository creates a new campground repository
func NewCampgroundRepository(db *gorm.DB) CampgroundRepository {
	return &campgroundRepository{db: db}
}

func (r *campgroundRepository) Create(ctx context.Context, campground *models.Campground) error {
	err := r.db.WithContext(ctx).Create(campground).Error
	if err == nil {
		cache.InvalidateCampgroundsList(ctx)
	}
	return err
}

// GetByID loads a campground with its author, images and reviews, plus the
// aggregated review count and average rating in a single query. The detail
// view is cache-aside in Redis; mutations invalidate the key, so the reload
// after a write refills from the primary.
func (r *campgroundRepository) GetByID(ctx context.Context, id uint) (*models.Campground, error) {
	var campground models.Campground
	err := cache.Aside(ctx, cache.CampgroundKey(id), &campground, cache.CampgroundTTL, func() error {
		err := r.applyCampgroundDetails(r.db.WithContext(ctx)).
			Preload("Author").
			Preload("Images").
			Preload("Reviews", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC")
			}).
			Preload("Reviews.Author").
			First(&campground, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Campground", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &campground, nil
}

// GetLean loads a campground with only its images, for ownership checks and
// mutations that do not need the full detail view.
func (r *campgroundRepository) GetLean(ctx context.Context, id uint) (*models.Campground, error) {
	var campground models.Campground
	err := r.db.WithContext(ctx).
		Preload("Images").
		First(&campground, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Campground", id)
		}
		return nil, err
	}
	return &campground, nil
}

func (r *campgroundRepository) List(ctx context.Context, limit, offset int, sort string) ([]*models.Campground, error) {
	var campgrounds []*models.Campground
	fetch := func() error {
		base := r.applyCampgroundDetails(readDB(r.db).WithContext(ctx)).
			Preload("Author").
			Preload("Images")
		return r.applySort(base, sort).
			Limit(limit).
			Offset(offset).
			Find(&campgrounds).Error
	}

	// Only the default first page is cached under the single list key; it
	// serves the index view and is what mutations invalidate.
	if offset == 0 && limit == defaultListLimit && isDefaultSort(sort) {
		if err := cache.Aside(ctx, cache.CampgroundsListKey, &campgrounds, cache.ListTTL, fetch); err != nil {
			return nil, err
		}
		return campgrounds, nil
	}

	if err := fetch(); err != nil {
		return nil, err
	}
	return campgrounds, nil
}

func (r *campgroundRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Campground, error) {
	var campgrounds []*models.Campground
	err := r.applyCampgroundDetails(readDB(r.db).WithContext(ctx)).
		Preload("Images").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&campgrounds).Error
	if err != nil {
		return nil, err
	}
	return campgrounds, nil
}

func (r *campgroundRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Campground, error) {
	var campgrounds []*models.Campground
	like := "%" + query + "%"
	err := r.applyCampgroundDetails(readDB(r.db).WithContext(ctx)).
		Preload("Author").
		Preload("Images").
		Where("title ILIKE ? OR location ILIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&campgrounds).Error
	if err != nil {
		return nil, err
	}
	return campgrounds, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// reviews_count and avg_rating are SELECT aliases from applyCampgroundDetails;
// PostgreSQL allows referencing them in ORDER BY within the same query level.
func (r *campgroundRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("avg_rating DESC, reviews_count DESC, created_at DESC")
	case "popular":
		return db.Order("reviews_count DESC, created_at DESC")
	case "price_asc":
		return db.Order("price ASC, created_at DESC")
	case "price_desc":
		return db.Order("price DESC, created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

// applyCampgroundDetails adds subqueries to fetch review aggregates in a single query.
func (r *campgroundRepository) applyCampgroundDetails(db *gorm.DB) *gorm.DB {
	return db.Select("campgrounds.*, " +
		"(SELECT COUNT(*) FROM reviews WHERE reviews.campground_id = campgrounds.id AND reviews.deleted_at IS NULL) as reviews_count, " +
		"(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE reviews.campground_id = campgrounds.id AND reviews.deleted_at IS NULL) as avg_rating")
}

func (r *campgroundRepository) Update(ctx context.Context, campground *models.Campground) error {
	if err := r.db.WithContext(ctx).Omit("Images", "Reviews", "Author").Save(campground).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CampgroundKey(campground.ID))
	cache.InvalidateCampgroundsList(ctx)
	return nil
}

func (r *campgroundRepository) AddImages(ctx context.Context, campgroundID uint, images []models.Image) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].CampgroundID = campgroundID
	}
	if err := r.db.WithContext(ctx).Create(&images).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CampgroundKey(campgroundID))
	return nil
}

// RemoveImagesByFilename deletes the named images and returns the rows that
// were actually removed so callers can release the underlying files.
func (r *campgroundRepository) RemoveImagesByFilename(ctx context.Context, campgroundID uint, filenames []string) ([]models.Image, error) {
	if len(filenames) == 0 {
		return nil, nil
	}
	var removed []models.Image
	if err := r.db.WithContext(ctx).
		Where("campground_id = ? AND filename IN ?", campgroundID, filenames).
		Find(&removed).Error; err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).
		Where("campground_id = ? AND filename IN ?", campgroundID, filenames).
		Delete(&models.Image{}).Error; err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.CampgroundKey(campgroundID))
	return removed, nil
}

func (r *campgroundRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Campground{}, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("campground_id = ?", id).Delete(&models.Image{}).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CampgroundKey(id))
	cache.InvalidateCampgroundsList(ctx)
	return nil
}
