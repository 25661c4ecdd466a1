package session

import (
	"encoding/json"

	"campwild/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	successFlashKey = "flash_success"
	errorFlashKey   = "flash_error"
)

// Flashes holds the one-time messages popped from a session.
type Flashes struct {
	Success []string `json:"success,omitempty"`
	Error   []string `json:"error,omitempty"`
}

// AddSuccess queues a success flash message for the next read.
func (s *Store) AddSuccess(c *fiber.Ctx, message string) {
	s.appendFlash(c, successFlashKey, message)
}

// AddError queues an error flash message for the next read.
func (s *Store) AddError(c *fiber.Ctx, message string) {
	s.appendFlash(c, errorFlashKey, message)
}

// PopFlashes returns all queued flash messages and clears them. Each message
// is delivered at most once.
func (s *Store) PopFlashes(c *fiber.Ctx) Flashes {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return Flashes{}
	}

	flashes := Flashes{
		Success: decodeFlash(sess.Get(successFlashKey)),
		Error:   decodeFlash(sess.Get(errorFlashKey)),
	}
	if len(flashes.Success) == 0 && len(flashes.Error) == 0 {
		return flashes
	}

	sess.Delete(successFlashKey)
	sess.Delete(errorFlashKey)
	if err := sess.Save(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to clear flashes", "error", err)
	}
	return flashes
}

// appendFlash stores flash queues as JSON strings so the session storage only
// ever sees string values.
func (s *Store) appendFlash(c *fiber.Ctx, key, message string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}

	queue := decodeFlash(sess.Get(key))
	queue = append(queue, message)

	encoded, err := json.Marshal(queue)
	if err != nil {
		return
	}
	sess.Set(key, string(encoded))
	if err := sess.Save(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to save flash", "error", err)
	}
}

func decodeFlash(raw any) []string {
	encoded, ok := raw.(string)
	if !ok || encoded == "" {
		return nil
	}
	var queue []string
	if err := json.Unmarshal([]byte(encoded), &queue); err != nil {
		return nil
	}
	return queue
}
