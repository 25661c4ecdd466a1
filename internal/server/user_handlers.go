package server

import (
	"campwild/internal/models"
	"campwild/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.Profile(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"flash": s.sessions.PopFlashes(c),
	})
}

// UpdateMyBio handles PUT /api/users/me/bio
func (s *Server) UpdateMyBio(c *fiber.Ctx) error {
	var req struct {
		Bio string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateBio(c.UserContext(), service.UpdateBioInput{
		UserID: currentUserID(c),
		Bio:    req.Bio,
	})
	if err != nil {
		return s.handleServiceError(c, err)
	}

	s.sessions.AddSuccess(c, "Bio updated successfully!")
	return c.JSON(fiber.Map{
		"user":  user,
		"flash": s.sessions.PopFlashes(c),
	})
}

// DeleteMyAccount handles DELETE /api/users/me
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.UserContext(), currentUserID(c)); err != nil {
		return s.handleServiceError(c, err)
	}

	if err := s.sessions.Logout(c); err == nil {
		s.sessions.AddSuccess(c, "Account deleted. Goodbye!")
	}
	return c.JSON(fiber.Map{
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds",
	})
}
