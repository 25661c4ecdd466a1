package server

import (
	"fmt"
	"strconv"
	"time"

	"campwild/internal/middleware"
	"campwild/internal/models"
	"campwild/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		Username       string `json:"username"`
		Password       string `json:"password"`
		RepeatPassword string `json:"repeat_password"`
		TOSAccepted    bool   `json:"tos_accepted"`
		Bio            string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), validation.RegistrationPayload{
		Name:           req.Name,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
		TOSAccepted:    req.TOSAccepted,
		Bio:            req.Bio,
	})
	if err != nil {
		return s.handleServiceError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.sessions.Login(c, user.ID); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session login failed after signup",
			"error", err,
			"user_id", user.ID,
		)
	}
	s.sessions.AddSuccess(c, "Welcome to Campwild!")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":  token,
		"user":   user,
		"flash":  s.sessions.PopFlashes(c),
		"status": "registered",
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if models.ErrorCode(err) == models.ErrCodeUnauthorized {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return s.handleServiceError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.sessions.Login(c, user.ID); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session login failed",
			"error", err,
			"user_id", user.ID,
		)
	}
	s.sessions.AddSuccess(c, "Welcome back!")

	// Requests bounced to login by RequireLogin carry a stored destination.
	redirectTo := s.sessions.PopReturnTo(c)
	if redirectTo == "" {
		redirectTo = "/api/campgrounds"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token":       token,
		"user":        user,
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": redirectTo,
	})
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Logout(c); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session logout failed", "error", err)
	}
	s.sessions.AddSuccess(c, "Goodbye!")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds",
	})
}

// generateToken creates a JWT for bearer-token API clients.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      middleware.TokenIssuer,
		"aud":      middleware.TokenAudience,
		"exp":      now.Add(7 * 24 * time.Hour).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI produces a unique token identifier for audit trails.
func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8])
}
