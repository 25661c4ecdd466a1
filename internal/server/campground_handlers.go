package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"

	"campwild/internal/middleware"
	"campwild/internal/models"
	"campwild/internal/service"
	"campwild/internal/storage"
	"campwild/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// campgroundRequest is the JSON envelope for campground mutations. Multipart
// submissions carry the same fields as form values plus "images" file parts.
type campgroundRequest struct {
	Title        string   `json:"title"`
	Price        *float64 `json:"price"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	DeleteImages []string `json:"deleteImages"`
}

// ListCampgrounds handles GET /api/campgrounds
func (s *Server) ListCampgrounds(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	sort := c.Query("sort")

	campgrounds, err := s.campgroundService.ListCampgrounds(c.UserContext(), page.Limit, page.Offset, sort)
	if err != nil {
		return s.handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"campgrounds": campgrounds,
		"flash":       s.sessions.PopFlashes(c),
	})
}

// SearchCampgrounds handles GET /api/campgrounds/search?q=...
func (s *Server) SearchCampgrounds(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	page := parsePagination(c, 20)
	campgrounds, err := s.campgroundService.SearchCampgrounds(c.UserContext(), q, page.Limit, page.Offset)
	if err != nil {
		return s.handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"campgrounds": campgrounds})
}

// GetCampground handles GET /api/campgrounds/:id
func (s *Server) GetCampground(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	campground, err := s.campgroundService.GetCampground(c.UserContext(), id)
	if err != nil {
		return s.handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"campground": campground,
		"flash":      s.sessions.PopFlashes(c),
	})
}

// CreateCampground handles POST /api/campgrounds
func (s *Server) CreateCampground(c *fiber.Ctx) error {
	payload, uploads, err := parseCampgroundForm(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	campground, err := s.campgroundService.CreateCampground(c.UserContext(), service.CreateCampgroundInput{
		UserID:  currentUserID(c),
		Payload: payload,
		Uploads: uploads,
	})
	if err != nil {
		return s.handleServiceError(c, err)
	}

	middleware.CampgroundMutations.WithLabelValues("create").Inc()
	s.sessions.AddSuccess(c, "Successfully made a new campground!")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"campground":  campground,
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds/" + strconv.FormatUint(uint64(campground.ID), 10),
	})
}

// UpdateCampground handles PUT /api/campgrounds/:id
func (s *Server) UpdateCampground(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	payload, uploads, err := parseCampgroundForm(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	campground, err := s.campgroundService.UpdateCampground(c.UserContext(), service.UpdateCampgroundInput{
		UserID:       currentUserID(c),
		CampgroundID: id,
		Payload:      payload,
		Uploads:      uploads,
	})
	if err != nil {
		return s.handleServiceError(c, err)
	}

	middleware.CampgroundMutations.WithLabelValues("update").Inc()
	s.sessions.AddSuccess(c, "Successfully updated campground!")
	return c.JSON(fiber.Map{
		"campground":  campground,
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds/" + strconv.FormatUint(uint64(campground.ID), 10),
	})
}

// DeleteCampground handles DELETE /api/campgrounds/:id
func (s *Server) DeleteCampground(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.campgroundService.DeleteCampground(c.UserContext(), service.DeleteCampgroundInput{
		UserID:       currentUserID(c),
		CampgroundID: id,
	}); err != nil {
		return s.handleServiceError(c, err)
	}

	middleware.CampgroundMutations.WithLabelValues("delete").Inc()
	s.sessions.AddSuccess(c, "Successfully deleted campground!")
	return c.JSON(fiber.Map{
		"flash":       s.sessions.PopFlashes(c),
		"redirect_to": "/api/campgrounds",
	})
}

// parseCampgroundForm accepts either a JSON body or a multipart form with
// "images" file parts and returns the validated-shape payload plus uploads.
func parseCampgroundForm(c *fiber.Ctx) (validation.CampgroundPayload, []storage.Upload, error) {
	var payload validation.CampgroundPayload

	form, err := c.MultipartForm()
	if err != nil {
		// Not multipart; fall back to the JSON envelope.
		var req campgroundRequest
		if jerr := c.BodyParser(&req); jerr != nil {
			return payload, nil, models.NewValidationError("Invalid request body")
		}
		payload = validation.CampgroundPayload{
			Title:        req.Title,
			Price:        req.Price,
			Location:     req.Location,
			Description:  req.Description,
			DeleteImages: req.DeleteImages,
		}
		return payload, nil, nil
	}

	payload.Title = formValue(form, "title")
	payload.Location = formValue(form, "location")
	payload.Description = formValue(form, "description")
	if raw := formValue(form, "price"); raw != "" {
		price, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			return payload, nil, models.NewValidationError("price must be a number")
		}
		payload.Price = &price
	}
	payload.DeleteImages = form.Value["deleteImages"]
	if raw := formValue(form, "deleteImagesJSON"); raw != "" {
		var names []string
		if jerr := json.Unmarshal([]byte(raw), &names); jerr != nil {
			return payload, nil, models.NewValidationError("deleteImagesJSON must be a JSON array of filenames")
		}
		payload.DeleteImages = append(payload.DeleteImages, names...)
	}

	uploads, err := readUploads(form.File["images"])
	if err != nil {
		return payload, nil, err
	}
	return payload, uploads, nil
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func readUploads(headers []*multipart.FileHeader) ([]storage.Upload, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > models.MaxCampgroundImages {
		return nil, models.NewValidationError("images must contain at most 10 entries")
	}

	uploads := make([]storage.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, models.NewValidationError("Could not read uploaded file")
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, models.NewValidationError("Could not read uploaded file")
		}
		uploads = append(uploads, storage.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return uploads, nil
}
