package service

import (
	"context"
	"strings"
	"testing"

	"campwild/internal/models"
	"campwild/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validRegistration() validation.RegistrationPayload {
	return validation.RegistrationPayload{
		Name:           "Jamie Park",
		Email:          "jamie@example.com",
		Username:       "jamie42",
		Password:       "hunter2000",
		RepeatPassword: "hunter2000",
		TOSAccepted:    true,
	}
}

func newUserService(userRepo *userRepoStub) *UserService {
	return NewUserService(userRepo, noopCampgroundRepo(), noopReviewRepo(), noopImageStore())
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user with hashed password", func(t *testing.T) {
		t.Parallel()
		var created *models.User
		userRepo := noopUserRepo()
		userRepo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 5
			created = u
			return nil
		}

		svc := newUserService(userRepo)
		user, err := svc.Register(context.Background(), validRegistration())
		require.NoError(t, err)
		assert.Equal(t, uint(5), user.ID)
		assert.Equal(t, "jamie42", created.Username)
		assert.NotEqual(t, "hunter2000", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter2000")))
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 9}, nil
		}
		svc := newUserService(userRepo)
		_, err := svc.Register(context.Background(), validRegistration())
		assertValidationError(t, err)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 9}, nil
		}
		svc := newUserService(userRepo)
		_, err := svc.Register(context.Background(), validRegistration())
		assertValidationError(t, err)
	})

	t.Run("password mismatch rejected", func(t *testing.T) {
		t.Parallel()
		payload := validRegistration()
		payload.RepeatPassword = "different11"
		svc := newUserService(noopUserRepo())
		_, err := svc.Register(context.Background(), payload)
		assertValidationError(t, err)
	})

	t.Run("terms must be accepted", func(t *testing.T) {
		t.Parallel()
		payload := validRegistration()
		payload.TOSAccepted = false
		svc := newUserService(noopUserRepo())
		_, err := svc.Register(context.Background(), payload)
		assertValidationError(t, err)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2000"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "jamie42" {
			return &models.User{ID: 5, Username: "jamie42", Password: string(hash)}, nil
		}
		return nil, nil
	}
	svc := newUserService(userRepo)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		user, err := svc.Authenticate(ctx, "jamie42", "hunter2000")
		require.NoError(t, err)
		assert.Equal(t, uint(5), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(ctx, "jamie42", "wrong")
		assertUnauthorizedError(t, err)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(ctx, "nobody", "hunter2000")
		assertUnauthorizedError(t, err)
	})
}

func TestUserService_UpdateBio(t *testing.T) {
	t.Parallel()

	t.Run("updates bio", func(t *testing.T) {
		t.Parallel()
		var savedBio string
		userRepo := noopUserRepo()
		userRepo.updateBioFn = func(_ context.Context, _ uint, bio string) error {
			savedBio = bio
			return nil
		}
		svc := newUserService(userRepo)
		_, err := svc.UpdateBio(context.Background(), UpdateBioInput{UserID: 1, Bio: "Weekend hiker."})
		require.NoError(t, err)
		assert.Equal(t, "Weekend hiker.", savedBio)
	})

	t.Run("bio too long rejected", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(noopUserRepo())
		_, err := svc.UpdateBio(context.Background(), UpdateBioInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("bio with markup rejected", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(noopUserRepo())
		_, err := svc.UpdateBio(context.Background(), UpdateBioInput{
			UserID: 1,
			Bio:    "<script>alert(1)</script>",
		})
		assertValidationError(t, err)
	})
}

func TestUserService_DeleteAccount_Cascade(t *testing.T) {
	t.Parallel()

	var order []string
	campgroundRepo := noopCampgroundRepo()
	campgroundRepo.listByAuthorFn = func(_ context.Context, _ uint) ([]*models.Campground, error) {
		return []*models.Campground{
			{ID: 1, AuthorID: 4, Images: []models.Image{{Filename: "campwild/a.jpg"}}},
			{ID: 2, AuthorID: 4},
		}, nil
	}
	campgroundRepo.deleteFn = func(_ context.Context, _ uint) error {
		order = append(order, "campground")
		return nil
	}
	reviewRepo := noopReviewRepo()
	reviewRepo.deleteByCampgroundFn = func(_ context.Context, _ uint) error {
		order = append(order, "campground-reviews")
		return nil
	}
	reviewRepo.deleteByAuthorFn = func(_ context.Context, _ uint) error {
		order = append(order, "own-reviews")
		return nil
	}
	userRepo := noopUserRepo()
	userRepo.deleteFn = func(_ context.Context, _ uint) error {
		order = append(order, "user")
		return nil
	}

	images := noopImageStore()
	svc := NewUserService(userRepo, campgroundRepo, reviewRepo, images)

	err := svc.DeleteAccount(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"campground-reviews", "campground",
		"campground-reviews", "campground",
		"own-reviews", "user",
	}, order)
	assert.Equal(t, []string{"campwild/a.jpg"}, images.deleted)
}

func TestUserService_DeleteAccount_Anonymous(t *testing.T) {
	t.Parallel()

	svc := newUserService(noopUserRepo())
	err := svc.DeleteAccount(context.Background(), 0)
	assertUnauthorizedError(t, err)
}
