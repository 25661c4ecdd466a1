package service

import (
	"context"
	"log/slog"

	"campwild/internal/middleware"
	"campwild/internal/models"
	"campwild/internal/repository"
	"campwild/internal/storage"
	"campwild/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, authentication and profile management.
type UserService struct {
	userRepo       repository.UserRepository
	campgroundRepo repository.CampgroundRepository
	reviewRepo     repository.ReviewRepository
	images         storage.ImageStore
}

type UpdateBioInput struct {
	UserID uint
	Bio    string
}

func NewUserService(
	userRepo repository.UserRepository,
	campgroundRepo repository.CampgroundRepository,
	reviewRepo repository.ReviewRepository,
	images storage.ImageStore,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		campgroundRepo: campgroundRepo,
		reviewRepo:     reviewRepo,
		images:         images,
	}
}

// Register validates the payload, checks username and email uniqueness and
// creates the account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in validation.RegistrationPayload) (*models.User, error) {
	if err := validation.ValidateRegistration(in); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("A user with the given username is already registered")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("A user with the given email is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hashedPassword),
		Name:        in.Name,
		Bio:         in.Bio,
		TOSAccepted: in.TOSAccepted,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the username and password. The same error is returned
// for an unknown user and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// Profile returns the user with their most recent campgrounds.
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByIDWithCampgrounds(ctx, userID, 20)
}

func (s *UserService) UpdateBio(ctx context.Context, in UpdateBioInput) (*models.User, error) {
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateBio(ctx, in.UserID, in.Bio); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}

// DeleteAccount removes the user's campgrounds (with their reviews and
// images), the user's own reviews on other campgrounds, and finally the
// account. Each step is a visible repository call; there is no wrapping
// transaction, so a failure partway leaves earlier deletions in place.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("You must be signed in first!")
	}

	campgrounds, err := s.campgroundRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	for _, campground := range campgrounds {
		if err := s.reviewRepo.DeleteByCampground(ctx, campground.ID); err != nil {
			return err
		}
		if err := s.campgroundRepo.Delete(ctx, campground.ID); err != nil {
			return err
		}
		for _, img := range campground.Images {
			if err := s.images.Delete(ctx, img.Filename); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to release image file",
					slog.String("filename", img.Filename),
					slog.String("error", err.Error()))
			}
		}
	}

	if err := s.reviewRepo.DeleteByAuthor(ctx, userID); err != nil {
		return err
	}

	return s.userRepo.Delete(ctx, userID)
}
