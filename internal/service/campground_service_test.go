package service

import (
	"context"
	"errors"
	"testing"

	"campwild/internal/middleware"
	"campwild/internal/models"
	"campwild/internal/storage"
	"campwild/internal/validation"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func validCampgroundPayload() validation.CampgroundPayload {
	return validation.CampgroundPayload{
		Title:       "Granite Pass",
		Price:       floatPtr(24.5),
		Location:    "Sierra Nevada, CA",
		Description: "Creekside sites under old growth pines.",
	}
}

func TestCampgroundService_CreateCampground_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCampgroundService(noopCampgroundRepo(), noopReviewRepo(), noopImageStore())
	ctx := context.Background()

	t.Run("anonymous user rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateCampground(ctx, CreateCampgroundInput{Payload: validCampgroundPayload()})
		assertUnauthorizedError(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		payload := validCampgroundPayload()
		payload.Title = ""
		_, err := svc.CreateCampground(ctx, CreateCampgroundInput{UserID: 1, Payload: payload})
		assertValidationError(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		t.Parallel()
		payload := validCampgroundPayload()
		payload.Price = floatPtr(-1)
		_, err := svc.CreateCampground(ctx, CreateCampgroundInput{UserID: 1, Payload: payload})
		assertValidationError(t, err)
	})

	t.Run("too many images", func(t *testing.T) {
		t.Parallel()
		payload := validCampgroundPayload()
		for i := 0; i < models.MaxCampgroundImages+1; i++ {
			payload.Images = append(payload.Images, validation.ImagePayload{
				URL:      "https://example.com/a.jpg",
				Filename: "a.jpg",
			})
		}
		_, err := svc.CreateCampground(ctx, CreateCampgroundInput{UserID: 1, Payload: payload})
		assertValidationError(t, err)
	})
}

func TestCampgroundService_CreateCampground_Success(t *testing.T) {
	t.Parallel()

	var created *models.Campground
	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.createFn = func(_ context.Context, c *models.Campground) error {
		c.ID = 7
		created = c
		return nil
	}
	campgroundRepo.getByIDFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return created, nil
	}

	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), noopImageStore())
	campground, err := svc.CreateCampground(context.Background(), CreateCampgroundInput{
		UserID:  3,
		Payload: validCampgroundPayload(),
		Uploads: []storage.Upload{{Filename: "view.jpg", Content: []byte("x")}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), campground.ID)
	assert.Equal(t, uint(3), campground.AuthorID)
	require.Len(t, campground.Images, 1)
	assert.Equal(t, "campwild/view.jpg", campground.Images[0].Filename)
}

func TestCampgroundService_StoreUploads_CountsOutcomes(t *testing.T) {
	// Not parallel: the upload counter is process-global.
	successBefore := testutil.ToFloat64(middleware.ImageUploads.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(middleware.ImageUploads.WithLabelValues("failure"))

	svc := NewCampgroundService(noopCampgroundRepo(), noopReviewRepo(), noopImageStore())
	_, err := svc.CreateCampground(context.Background(), CreateCampgroundInput{
		UserID:  1,
		Payload: validCampgroundPayload(),
		Uploads: []storage.Upload{
			{Filename: "a.jpg", Content: []byte("x")},
			{Filename: "b.jpg", Content: []byte("x")},
		},
	})
	require.NoError(t, err)

	failing := noopImageStore()
	failing.storeFn = func(_ context.Context, _ storage.Upload) (*storage.StoredImage, error) {
		return nil, errors.New("disk full")
	}
	svc = NewCampgroundService(noopCampgroundRepo(), noopReviewRepo(), failing)
	_, err = svc.CreateCampground(context.Background(), CreateCampgroundInput{
		UserID:  1,
		Payload: validCampgroundPayload(),
		Uploads: []storage.Upload{{Filename: "c.jpg", Content: []byte("x")}},
	})
	require.Error(t, err)

	assert.Equal(t, successBefore+2, testutil.ToFloat64(middleware.ImageUploads.WithLabelValues("success")))
	assert.Equal(t, failureBefore+1, testutil.ToFloat64(middleware.ImageUploads.WithLabelValues("failure")))
}

func TestCampgroundService_CreateCampground_ReleasesImagesOnFailure(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("insert failed")
	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.createFn = func(_ context.Context, _ *models.Campground) error { return repoErr }

	images := noopImageStore()
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), images)
	_, err := svc.CreateCampground(context.Background(), CreateCampgroundInput{
		UserID:  1,
		Payload: validCampgroundPayload(),
		Uploads: []storage.Upload{{Filename: "view.jpg", Content: []byte("x")}},
	})
	assert.ErrorIs(t, err, repoErr)
	assert.Equal(t, []string{"campwild/view.jpg"}, images.deleted)
}

func TestCampgroundService_UpdateCampground_Ownership(t *testing.T) {
	t.Parallel()

	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return &models.Campground{ID: id, AuthorID: 10}, nil
	}
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), noopImageStore())

	_, err := svc.UpdateCampground(context.Background(), UpdateCampgroundInput{
		UserID:       1,
		CampgroundID: 5,
		Payload:      validCampgroundPayload(),
	})
	assertUnauthorizedError(t, err)
}

func TestCampgroundService_UpdateCampground_DeletesNamedImages(t *testing.T) {
	t.Parallel()

	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return &models.Campground{ID: id, AuthorID: 1, Images: []models.Image{
			{Filename: "campwild/keep.jpg"},
			{Filename: "campwild/drop.jpg"},
		}}, nil
	}
	var removedNames []string
	campgroundRepo.removeImagesFn = func(_ context.Context, _ uint, filenames []string) ([]models.Image, error) {
		removedNames = filenames
		return []models.Image{{Filename: "campwild/drop.jpg"}}, nil
	}

	images := noopImageStore()
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), images)

	payload := validCampgroundPayload()
	payload.DeleteImages = []string{"campwild/drop.jpg"}
	_, err := svc.UpdateCampground(context.Background(), UpdateCampgroundInput{
		UserID:       1,
		CampgroundID: 5,
		Payload:      payload,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"campwild/drop.jpg"}, removedNames)
	assert.Equal(t, []string{"campwild/drop.jpg"}, images.deleted)
}

func TestCampgroundService_UpdateCampground_ImageCap(t *testing.T) {
	t.Parallel()

	existing := make([]models.Image, models.MaxCampgroundImages)
	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return &models.Campground{ID: id, AuthorID: 1, Images: existing}, nil
	}
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), noopImageStore())

	_, err := svc.UpdateCampground(context.Background(), UpdateCampgroundInput{
		UserID:       1,
		CampgroundID: 5,
		Payload:      validCampgroundPayload(),
		Uploads:      []storage.Upload{{Filename: "extra.jpg", Content: []byte("x")}},
	})
	assertValidationError(t, err)
}

func TestCampgroundService_UpdateCampground_ImageCapIgnoresUnknownDeleteNames(t *testing.T) {
	t.Parallel()

	existing := make([]models.Image, models.MaxCampgroundImages)
	for i := range existing {
		existing[i] = models.Image{Filename: "campwild/" + string(rune('a'+i)) + ".jpg"}
	}
	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return &models.Campground{ID: id, AuthorID: 1, Images: existing}, nil
	}
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), noopImageStore())

	// A delete entry naming no stored image frees no slot.
	payload := validCampgroundPayload()
	payload.DeleteImages = []string{"campwild/nope.jpg"}
	_, err := svc.UpdateCampground(context.Background(), UpdateCampgroundInput{
		UserID:       1,
		CampgroundID: 5,
		Payload:      payload,
		Uploads:      []storage.Upload{{Filename: "extra.jpg", Content: []byte("x")}},
	})
	assertValidationError(t, err)

	// Deleting a real image frees exactly one slot.
	payload.DeleteImages = []string{existing[0].Filename}
	_, err = svc.UpdateCampground(context.Background(), UpdateCampgroundInput{
		UserID:       1,
		CampgroundID: 5,
		Payload:      payload,
		Uploads:      []storage.Upload{{Filename: "extra.jpg", Content: []byte("x")}},
	})
	require.NoError(t, err)
}

func TestCampgroundService_DeleteCampground_Cascade(t *testing.T) {
	t.Parallel()

	var order []string
	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return &models.Campground{ID: id, AuthorID: 1, Images: []models.Image{
			{Filename: "campwild/a.jpg"},
		}}, nil
	}
	campgroundRepo.deleteFn = func(_ context.Context, _ uint) error {
		order = append(order, "campground")
		return nil
	}
	reviewRepo := noopReviewRepo()
	reviewRepo.deleteByCampgroundFn = func(_ context.Context, _ uint) error {
		order = append(order, "reviews")
		return nil
	}

	images := noopImageStore()
	svc := NewCampgroundService(campgroundRepo, reviewRepo, images)

	err := svc.DeleteCampground(context.Background(), DeleteCampgroundInput{UserID: 1, CampgroundID: 9})
	require.NoError(t, err)
	// Reviews go first so a failed campground delete never leaves orphaned reviews
	assert.Equal(t, []string{"reviews", "campground"}, order)
	assert.Equal(t, []string{"campwild/a.jpg"}, images.deleted)
}

func TestCampgroundService_DeleteCampground_NonOwner(t *testing.T) {
	t.Parallel()

	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return &models.Campground{ID: id, AuthorID: 2}, nil
	}
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), noopImageStore())

	err := svc.DeleteCampground(context.Background(), DeleteCampgroundInput{UserID: 1, CampgroundID: 9})
	assertUnauthorizedError(t, err)
}

func TestCampgroundService_DeleteCampground_NotFound(t *testing.T) {
	t.Parallel()

	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.getLeanFn = func(_ context.Context, id uint) (*models.Campground, error) {
		return nil, models.NewNotFoundError("Campground", id)
	}
	svc := NewCampgroundService(campgroundRepo, noopReviewRepo(), noopImageStore())

	err := svc.DeleteCampground(context.Background(), DeleteCampgroundInput{UserID: 1, CampgroundID: 9})
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeNotFound, models.ErrorCode(err))
}
