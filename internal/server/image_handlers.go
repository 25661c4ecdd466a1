package server

import (
	"campwild/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ServeImage handles GET /upload/* for stored campground images, including
// the w_200 thumbnail renditions.
func (s *Server) ServeImage(c *fiber.Ctx) error {
	path, err := s.images.Resolve(c.Params("*"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Image", c.Params("*")))
	}

	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
