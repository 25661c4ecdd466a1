package models

// Owned is implemented by every entity with a single owning user. The owning
// field differs per entity (campground author, review author, the user itself),
// so ownership checks go through this interface instead of per-type field
// comparisons scattered across handlers.
type Owned interface {
	OwnerID() uint
}

// IsOwner reports whether userID is the owner of the given entity.
func IsOwner(userID uint, entity Owned) bool {
	if entity == nil || userID == 0 {
		return false
	}
	return entity.OwnerID() == userID
}
