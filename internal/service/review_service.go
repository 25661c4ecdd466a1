package service

import (
	"context"

	"campwild/internal/models"
	"campwild/internal/repository"
	"campwild/internal/validation"
)

// ReviewService manages reviews attached to campgrounds.
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	campgroundRepo repository.CampgroundRepository
}

type CreateReviewInput struct {
	UserID       uint
	CampgroundID uint
	Payload      validation.ReviewPayload
}

type DeleteReviewInput struct {
	UserID       uint
	CampgroundID uint
	ReviewID     uint
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	campgroundRepo repository.CampgroundRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		campgroundRepo: campgroundRepo,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("You must be signed in first!")
	}
	if _, err := s.campgroundRepo.GetLean(ctx, in.CampgroundID); err != nil {
		return nil, err
	}
	if err := validation.ValidateReview(in.Payload); err != nil {
		return nil, err
	}

	review := &models.Review{
		Rating:       *in.Payload.Rating,
		Body:         in.Payload.Body,
		AuthorID:     in.UserID,
		CampgroundID: in.CampgroundID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return s.reviewRepo.GetByID(ctx, review.ID)
}

func (s *ReviewService) ListReviews(ctx context.Context, campgroundID uint) ([]*models.Review, error) {
	if _, err := s.campgroundRepo.GetLean(ctx, campgroundID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByCampground(ctx, campgroundID)
}

// DeleteReview removes a review. Deleting a review that is already gone is
// not an error so retried deletes stay safe.
func (s *ReviewService) DeleteReview(ctx context.Context, in DeleteReviewInput) error {
	review, err := s.reviewRepo.GetByID(ctx, in.ReviewID)
	if err != nil {
		if models.ErrorCode(err) == models.ErrCodeNotFound {
			return nil
		}
		return err
	}
	if review.CampgroundID != in.CampgroundID {
		return models.NewNotFoundError("Review", in.ReviewID)
	}
	if !models.IsOwner(in.UserID, review) {
		return models.NewUnauthorizedError("You do not have permission to do that!")
	}

	return s.reviewRepo.Delete(ctx, in.ReviewID)
}
