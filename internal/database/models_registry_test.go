package database

import (
	"testing"

	modelspkg "campwild/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesReview(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Review); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Review")
}
