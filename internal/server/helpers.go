package server

import (
	"strconv"

	"campwild/internal/middleware"
	"campwild/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination reads limit/offset from the query string, clamping the
// limit to maxPaginationLimit. Invalid values fall back to the defaults.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts and validates a numeric route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user set by RequireLogin, or 0 for
// anonymous requests.
func currentUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals("userID").(uint); ok {
		return userID
	}
	return 0
}

// handleServiceError maps service-layer errors to the browser-flow responses:
// missing campgrounds flash and bounce to the index, missing reviews flash and
// bounce back to their campground, other missing resources are plain 404s.
// Auth failures flash and bounce to login, validation errors come back as
// 400s for the form to render.
func (s *Server) handleServiceError(c *fiber.Ctx, err error) error {
	switch models.ErrorCode(err) {
	case models.ErrCodeNotFound:
		switch err.(*models.AppError).Resource {
		case "Campground":
			s.sessions.AddError(c, "Cannot find that campground!")
			return c.Redirect("/api/campgrounds", fiber.StatusSeeOther)
		case "Review":
			s.sessions.AddError(c, "Cannot find that review!")
			return c.Redirect(campgroundPath(c), fiber.StatusSeeOther)
		default:
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
	case models.ErrCodeUnauthorized:
		appErr := err.(*models.AppError)
		if appErr.Message == "You must be signed in first!" {
			s.sessions.SetReturnTo(c, c.OriginalURL())
			s.sessions.AddError(c, appErr.Message)
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		s.sessions.AddError(c, appErr.Message)
		return c.Redirect(campgroundPath(c), fiber.StatusSeeOther)
	case models.ErrCodeValidation:
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	default:
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled service error",
			"error", err,
			"path", c.Path(),
		)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
}

// campgroundPath returns the show page for the campground named in the route,
// or the index when the route has no id.
func campgroundPath(c *fiber.Ctx) string {
	if id := c.Params("id"); id != "" {
		return "/api/campgrounds/" + id
	}
	return "/api/campgrounds"
}
