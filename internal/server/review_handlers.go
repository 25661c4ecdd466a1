package server

import (
	"strconv"

	"campwild/internal/models"
	"campwild/internal/service"
	"campwild/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ListReviews handles GET /api/campgrounds/:id/reviews
func (s *Server) ListReviews(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	reviews, err := s.reviewService.ListReviews(c.UserContext(), id)
	if err != nil {
		return s.handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

// CreateReview handles POST /api/campgrounds/:id/reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Rating *int   `json:"rating"`
		Body   string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.CreateReview(c.UserContext(), service.CreateReviewInput{
		UserID:       currentUserID(c),
		CampgroundID: id,
		Payload: validation.ReviewPayload{
			Rating: req.Rating,
			Body:   req.Body,
		},
	})
	if err != nil {
		return s.handleServiceError(c, err)
	}

	s.sessions.AddSuccess(c, "Created new review!")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"review":      review,
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds/" + strconv.FormatUint(uint64(id), 10),
	})
}

// DeleteReview handles DELETE /api/campgrounds/:id/reviews/:reviewId
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	campgroundID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	reviewID, err := parseID(c, "reviewId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.reviewService.DeleteReview(c.UserContext(), service.DeleteReviewInput{
		UserID:       currentUserID(c),
		CampgroundID: campgroundID,
		ReviewID:     reviewID,
	}); err != nil {
		return s.handleServiceError(c, err)
	}

	s.sessions.AddSuccess(c, "Successfully deleted review!")
	return c.JSON(fiber.Map{
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds/" + strconv.FormatUint(uint64(campgroundID), 10),
	})
}
