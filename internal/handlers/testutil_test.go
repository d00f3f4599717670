package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testWebhookSecret = "test-webhook-secret"

// session tokens accepted by the stub verifier, keyed by user id
var sessions = map[string]string{
	"alice-token": "alice",
	"bob-token":   "bob",
	"carol-token": "carol",
}

type stubVerifier map[string]string

func (s stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	uid, ok := s[idToken]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &auth.Token{UID: uid}, nil
}

type memoryMedia struct {
	uploaded []string
	deleted  []string
}

func (m *memoryMedia) UploadFile(ctx context.Context, blob []byte, path string) (*firebase.UploadResult, error) {
	m.uploaded = append(m.uploaded, path)
	return &firebase.UploadResult{PublicID: path, SecureURL: "https://storage.example.com/" + path}, nil
}

func (m *memoryMedia) DeleteFile(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return nil
}

type staticTrends []models.Trend

func (s staticTrends) PopularTrends(ctx context.Context, limit int) ([]models.Trend, error) {
	if len(s) > limit {
		return s[:limit], nil
	}
	return s, nil
}

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	db    *gorm.DB
	media *memoryMedia
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "social.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repositories.AutoMigrate(db))

	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	media := &memoryMedia{}

	userService := services.NewUserService(userRepo)
	followService := services.NewFollowService(followRepo, userRepo, notificationRepo)
	trends := staticTrends{{Name: "golang", Count: 7}, {Name: "travel", Count: 3}}

	e := echo.New()
	e.Validator = validators.NewValidator()

	verifier := stubVerifier(sessions)
	session := middleware.FirebaseAuthMiddleware(verifier)
	webhookAuth := middleware.JWTAuthMiddleware(testWebhookSecret)

	api := e.Group("/api/v1")
	NewSearchHandler(services.NewSearchService(userRepo)).RegisterSearchRoutes(api)
	NewUserHandler(userService, services.NewBannerService(userRepo, media)).RegisterUserRoutes(api, webhookAuth, session)
	NewFollowHandler(followService, services.NewSuggestionService(followRepo, userRepo)).
		RegisterFollowRoutes(api, session, middleware.OptionalFirebaseAuth(verifier))
	NewTrendHandler(services.NewTrendService(trends, nil, time.Hour, 5)).RegisterTrendRoutes(api)
	NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(api, session)
	NewWebhookHandler(userService).RegisterWebhookRoutes(api, webhookAuth)

	return &testServer{t: t, e: e, db: db, media: media}
}

func webhookToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.WebhookClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	signed, err := token.SignedString([]byte(testWebhookSecret))
	require.NoError(t, err)
	return signed
}

// do sends body as JSON; token is sent as a bearer token when set
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createUser(id, username string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/users", echo.Map{
		"id":            id,
		"email_address": id + "@example.com",
		"username":      username,
		"first_name":    username,
	}, webhookToken(s.t))
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
}
