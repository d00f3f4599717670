package handlers

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tinyPNG = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

func TestCreateUserRequiresWebhookToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/v1/users", echo.Map{"id": "alice", "email_address": "a@example.com"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodPost, "/api/v1/users", echo.Map{"id": "alice", "email_address": "a@example.com"}, "alice-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUserValidatesBody(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/v1/users", echo.Map{"id": "alice", "email_address": "not-an-email"}, webhookToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_failed", env.Error.Kind)
}

func TestGetUser(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser("alice", "alice")

	rec := srv.do(http.MethodGet, "/api/v1/users/alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.UserProfile
	decodeData(t, rec, &profile)
	assert.Equal(t, "alice", profile.ID)
	assert.Equal(t, "alice@example.com", profile.EmailAddress)
	assert.Equal(t, []string{}, profile.Tags)

	rec = srv.do(http.MethodGet, "/api/v1/users/nobody", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String())
}

func TestUpdateAndDeleteUser(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser("alice", "alice")

	rec := srv.do(http.MethodPut, "/api/v1/users/alice", echo.Map{"username": "alice2"}, webhookToken(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile models.UserProfile
	decodeData(t, srv.do(http.MethodGet, "/api/v1/users/alice", nil, ""), &profile)
	assert.Equal(t, "alice2", profile.Username)

	rec = srv.do(http.MethodPut, "/api/v1/users/ghost", echo.Map{"username": "x"}, webhookToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodDelete, "/api/v1/users/alice", nil, webhookToken(t))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(http.MethodDelete, "/api/v1/users/alice", nil, webhookToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec).Error.Kind)
}

func TestProfileEditsRequireOwner(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser("alice", "alice")
	srv.createUser("bob", "bob")

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "owner", token: "alice-token", wantStatus: http.StatusOK},
		{name: "someone else", token: "bob-token", wantStatus: http.StatusForbidden},
		{name: "anonymous", token: "", wantStatus: http.StatusUnauthorized},
		{name: "invalid session", token: "stale-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodPut, "/api/v1/users/alice/bio", echo.Map{"bio": "hello"}, tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestUpdateBioAndInfluencer(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser("alice", "alice")

	rec := srv.do(http.MethodPut, "/api/v1/users/alice/bio", echo.Map{"bio": "Coffee and code"}, "alice-token")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodPut, "/api/v1/users/alice/influencer", echo.Map{}, "alice-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodPut, "/api/v1/users/alice/influencer", echo.Map{"isInfluencer": true}, "alice-token")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.UserProfile
	decodeData(t, srv.do(http.MethodGet, "/api/v1/users/alice", nil, ""), &profile)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Coffee and code", *profile.Bio)
	assert.True(t, profile.IsInfluencer)
}

func TestUpdateBanner(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser("alice", "alice")
	banner := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)

	rec := srv.do(http.MethodPut, "/api/v1/users/alice/banner", echo.Map{"banner": banner}, "alice-token")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first models.UserProfile
	decodeData(t, rec, &first)
	require.NotNil(t, first.BannerID)
	require.NotNil(t, first.BannerURL)
	assert.Equal(t, "https://storage.example.com/"+*first.BannerID, *first.BannerURL)

	rec = srv.do(http.MethodPut, "/api/v1/users/alice/banner", echo.Map{"banner": banner, "prevBannerId": *first.BannerID}, "alice-token")
	require.Equal(t, http.StatusOK, rec.Code)
	var second models.UserProfile
	decodeData(t, rec, &second)
	assert.NotEqual(t, *first.BannerID, *second.BannerID)
	assert.Equal(t, []string{*first.BannerID}, srv.media.deleted)

	rec = srv.do(http.MethodPut, "/api/v1/users/alice/banner", echo.Map{
		"banner": base64.StdEncoding.EncodeToString([]byte("plain text, not an image")),
	}, "alice-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, srv.media.uploaded, 2)
}

func TestStorageFailuresHideDriverErrors(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser("alice", "alice")
	sqlDB, err := srv.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		token   string
		message string
	}{
		{"read", http.MethodGet, "/api/v1/users/alice", nil, "", "storage unavailable: get user"},
		{"write", http.MethodPut, "/api/v1/users/alice/bio", echo.Map{"bio": "hello"}, "alice-token", "storage unavailable: update user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Equal(t, "5", rec.Header().Get("Retry-After"))
			assert.NotContains(t, rec.Body.String(), "database is closed")

			env := decode(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, "storage_unavailable", env.Error.Kind)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestNotFoundHasNoRetryAfter(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPut, "/api/v1/users/ghost", echo.Map{"username": "ghost"}, webhookToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}
