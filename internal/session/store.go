// Package session wraps Fiber's session middleware with the cookie, flash and
// post-login redirect behavior used by the application.
package session

import (
	"context"
	"errors"
	"time"

	"campwild/internal/middleware"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the session cookie name.
	CookieName = "campwild.sid"

	// Expiration is how long an idle session is kept.
	Expiration = 7 * 24 * time.Hour

	userIDKey   = "userID"
	returnToKey = "returnTo"
)

// Store manages user sessions.
type Store struct {
	sessions *fibersession.Store
}

// Config holds the session store settings.
type Config struct {
	// Redis is the backing client. When nil, sessions are kept in memory and
	// are lost on restart.
	Redis *redis.Client

	// Secure marks the session cookie as HTTPS-only.
	Secure bool
}

// New creates a session store.
func New(cfg Config) *Store {
	sc := fibersession.Config{
		Expiration:     Expiration,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
	}
	if cfg.Redis != nil {
		sc.Storage = &redisStorage{client: cfg.Redis}
	}
	return &Store{sessions: fibersession.New(sc)}
}

// Login records the user ID in the session.
func (s *Store) Login(c *fiber.Ctx, userID uint) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(userIDKey, userID)
	return sess.Save()
}

// Logout destroys the session.
func (s *Store) Logout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the logged-in user's ID, or 0 when the session is anonymous.
func (s *Store) UserID(c *fiber.Ctx) uint {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return 0
	}
	if uid, ok := sess.Get(userIDKey).(uint); ok {
		return uid
	}
	return 0
}

// SetReturnTo remembers the URL the user tried to visit before being sent to
// the login page.
func (s *Store) SetReturnTo(c *fiber.Ctx, url string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}
	sess.Set(returnToKey, url)
	if err := sess.Save(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to save returnTo", "error", err)
	}
}

// PopReturnTo returns the remembered URL and clears it. Returns "" when none
// was set.
func (s *Store) PopReturnTo(c *fiber.Ctx) string {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return ""
	}
	url, _ := sess.Get(returnToKey).(string)
	if url != "" {
		sess.Delete(returnToKey)
		if err := sess.Save(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to clear returnTo", "error", err)
		}
	}
	return url
}

// redisStorage adapts a go-redis client to fiber.Storage for session
// persistence across instances.
type redisStorage struct {
	client *redis.Client
}

const sessionPrefix = "sess:"

func (s *redisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), sessionPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Fiber expects a nil value, not an error, for a missing session
		return nil, nil
	}
	return val, err
}

func (s *redisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), sessionPrefix+key, val, exp).Err()
}

func (s *redisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), sessionPrefix+key).Err()
}

func (s *redisStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, sessionPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *redisStorage) Close() error {
	return nil
}
