package service

import (
	"context"
	"errors"
	"testing"

	"campwild/internal/models"
	"campwild/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// campgroundRepoStub is a stub for repository.CampgroundRepository.
type campgroundRepoStub struct {
	createFn       func(context.Context, *models.Campground) error
	getByIDFn      func(context.Context, uint) (*models.Campground, error)
	getLeanFn      func(context.Context, uint) (*models.Campground, error)
	listFn         func(context.Context, int, int, string) ([]*models.Campground, error)
	listByAuthorFn func(context.Context, uint) ([]*models.Campground, error)
	searchFn       func(context.Context, string, int, int) ([]*models.Campground, error)
	updateFn       func(context.Context, *models.Campground) error
	addImagesFn    func(context.Context, uint, []models.Image) error
	removeImagesFn func(context.Context, uint, []string) ([]models.Image, error)
	deleteFn       func(context.Context, uint) error
}

func (s *campgroundRepoStub) Create(ctx context.Context, c *models.Campground) error {
	return s.createFn(ctx, c)
}
func (s *campgroundRepoStub) GetByID(ctx context.Context, id uint) (*models.Campground, error) {
	return s.getByIDFn(ctx, id)
}
func (s *campgroundRepoStub) GetLean(ctx context.Context, id uint) (*models.Campground, error) {
	return s.getLeanFn(ctx, id)
}
func (s *campgroundRepoStub) List(ctx context.Context, limit, offset int, sort string) ([]*models.Campground, error) {
	return s.listFn(ctx, limit, offset, sort)
}
func (s *campgroundRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Campground, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *campgroundRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Campground, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *campgroundRepoStub) Update(ctx context.Context, c *models.Campground) error {
	return s.updateFn(ctx, c)
}
func (s *campgroundRepoStub) AddImages(ctx context.Context, id uint, images []models.Image) error {
	return s.addImagesFn(ctx, id, images)
}
func (s *campgroundRepoStub) RemoveImagesByFilename(ctx context.Context, id uint, filenames []string) ([]models.Image, error) {
	return s.removeImagesFn(ctx, id, filenames)
}
func (s *campgroundRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCampgroundRepo() *campgroundRepoStub {
	return &campgroundRepoStub{
		createFn: func(_ context.Context, _ *models.Campground) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Campground, error) {
			return &models.Campground{ID: id}, nil
		},
		getLeanFn: func(_ context.Context, id uint) (*models.Campground, error) {
			return &models.Campground{ID: id}, nil
		},
		listFn: func(_ context.Context, _, _ int, _ string) ([]*models.Campground, error) {
			return nil, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint) ([]*models.Campground, error) { return nil, nil },
		searchFn: func(_ context.Context, _ string, _, _ int) ([]*models.Campground, error) {
			return nil, nil
		},
		updateFn:       func(_ context.Context, _ *models.Campground) error { return nil },
		addImagesFn:    func(_ context.Context, _ uint, _ []models.Image) error { return nil },
		removeImagesFn: func(_ context.Context, _ uint, _ []string) ([]models.Image, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// reviewRepoStub is a stub for repository.ReviewRepository.
type reviewRepoStub struct {
	createFn             func(context.Context, *models.Review) error
	getByIDFn            func(context.Context, uint) (*models.Review, error)
	listByCampgroundFn   func(context.Context, uint) ([]*models.Review, error)
	listByAuthorFn       func(context.Context, uint) ([]*models.Review, error)
	deleteFn             func(context.Context, uint) error
	deleteByCampgroundFn func(context.Context, uint) error
	deleteByAuthorFn     func(context.Context, uint) error
}

func (s *reviewRepoStub) Create(ctx context.Context, r *models.Review) error {
	return s.createFn(ctx, r)
}
func (s *reviewRepoStub) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reviewRepoStub) ListByCampground(ctx context.Context, campgroundID uint) ([]*models.Review, error) {
	return s.listByCampgroundFn(ctx, campgroundID)
}
func (s *reviewRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Review, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *reviewRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *reviewRepoStub) DeleteByCampground(ctx context.Context, campgroundID uint) error {
	return s.deleteByCampgroundFn(ctx, campgroundID)
}
func (s *reviewRepoStub) DeleteByAuthor(ctx context.Context, authorID uint) error {
	return s.deleteByAuthorFn(ctx, authorID)
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		createFn: func(_ context.Context, _ *models.Review) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id}, nil
		},
		listByCampgroundFn:   func(_ context.Context, _ uint) ([]*models.Review, error) { return nil, nil },
		listByAuthorFn:       func(_ context.Context, _ uint) ([]*models.Review, error) { return nil, nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		deleteByCampgroundFn: func(_ context.Context, _ uint) error { return nil },
		deleteByAuthorFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn                func(context.Context, uint) (*models.User, error)
	getByIDWithCampgroundsFn func(context.Context, uint, int) (*models.User, error)
	getByEmailFn             func(context.Context, string) (*models.User, error)
	getByUsernameFn          func(context.Context, string) (*models.User, error)
	createFn                 func(context.Context, *models.User) error
	updateFn                 func(context.Context, *models.User) error
	updateBioFn              func(context.Context, uint, string) error
	deleteFn                 func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithCampgrounds(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithCampgroundsFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}
func (s *userRepoStub) UpdateBio(ctx context.Context, id uint, bio string) error {
	return s.updateBioFn(ctx, id, bio)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByIDWithCampgroundsFn: func(_ context.Context, id uint, _ int) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateBioFn:     func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// imageStoreStub is a stub for storage.ImageStore that records stored and
// deleted filenames.
type imageStoreStub struct {
	storeFn  func(context.Context, storage.Upload) (*storage.StoredImage, error)
	deleteFn func(context.Context, string) error
	deleted  []string
}

func (s *imageStoreStub) Store(ctx context.Context, upload storage.Upload) (*storage.StoredImage, error) {
	return s.storeFn(ctx, upload)
}
func (s *imageStoreStub) Delete(ctx context.Context, filename string) error {
	s.deleted = append(s.deleted, filename)
	if s.deleteFn != nil {
		return s.deleteFn(ctx, filename)
	}
	return nil
}

func noopImageStore() *imageStoreStub {
	return &imageStoreStub{
		storeFn: func(_ context.Context, upload storage.Upload) (*storage.StoredImage, error) {
			return &storage.StoredImage{
				URL:      "/upload/campwild/" + upload.Filename,
				Filename: "campwild/" + upload.Filename,
			}, nil
		},
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.ErrCodeUnauthorized, appErr.Code)
}
