package server

import (
	"net/http"
	"testing"

	"campwild/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.createUser(t, "jamie42")
	createTestCampground(t, ts, token)

	resp := ts.doJSON(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, "jamie42", user["username"])
	assert.NotContains(t, user, "password")

	campgrounds := user["campgrounds"].([]any)
	assert.Len(t, campgrounds, 1)
}

func TestGetMyProfile_RequiresLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.doJSON(t, http.MethodGet, "/api/users/me", "", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_ = resp.Body.Close()
}

func TestGetMyProfile_RejectsBadToken(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.doJSON(t, http.MethodGet, "/api/users/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetMyProfile_DeletedUserGets404(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.createUser(t, "jamie42")
	require.NoError(t, ts.db.Delete(&models.User{}, user.ID).Error)

	resp := ts.doJSON(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestUpdateMyBio(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.createUser(t, "jamie42")

	resp := ts.doJSON(t, http.MethodPut, "/api/users/me/bio", token, map[string]any{
		"bio": "Weekend backpacker and amateur photographer.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Weekend backpacker and amateur photographer.", user["bio"])

	flash := body["flash"].(map[string]any)
	assert.Contains(t, flash["success"], "Bio updated successfully!")
}

func TestUpdateMyBio_RejectsMarkup(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.createUser(t, "jamie42")

	resp := ts.doJSON(t, http.MethodPut, "/api/users/me/bio", token, map[string]any{
		"bio": "<script>alert(1)</script>",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "bio must not include HTML!")
}

func TestDeleteMyAccount_CascadesContent(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.createUser(t, "jamie42")
	campground := createTestCampground(t, ts, token)

	// another user's review on the doomed campground
	reviewer, reviewerToken := ts.createUser(t, "casey77")
	review := models.Review{
		Rating:       4,
		Body:         "Great stars at night.",
		AuthorID:     reviewer.ID,
		CampgroundID: uint(campground["id"].(float64)),
	}
	require.NoError(t, ts.db.Create(&review).Error)

	resp := ts.doJSON(t, http.MethodDelete, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var userCount, campgroundCount, reviewCount int64
	require.NoError(t, ts.db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, ts.db.Model(&models.Campground{}).Count(&campgroundCount).Error)
	require.NoError(t, ts.db.Model(&models.Review{}).Count(&reviewCount).Error)
	assert.EqualValues(t, 1, userCount, "only the reviewer remains")
	assert.Zero(t, campgroundCount)
	assert.Zero(t, reviewCount)

	// the deleted user can no longer authenticate
	loginResp := ts.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": user.Username,
		"password": "hunter2000",
	})
	assert.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)
	_ = loginResp.Body.Close()

	// the surviving user still works
	profileResp := ts.doJSON(t, http.MethodGet, "/api/users/me", reviewerToken, nil)
	assert.Equal(t, http.StatusOK, profileResp.StatusCode)
	_ = profileResp.Body.Close()
}
