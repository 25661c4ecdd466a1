package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	CampgroundKeyPrefix = "campground:%d"
	CampgroundsListKey  = "campgrounds:list"
)

const (
	UserTTL       = 5 * time.Minute
	CampgroundTTL = 10 * time.Minute
	ListTTL       = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CampgroundKey(campgroundID uint) string {
	return fmt.Sprintf(CampgroundKeyPrefix, campgroundID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCampground(ctx context.Context, campgroundID uint) {
	Invalidate(ctx, CampgroundKey(campgroundID))
}

func InvalidateCampgroundsList(ctx context.Context) {
	Invalidate(ctx, CampgroundsListKey)
}
