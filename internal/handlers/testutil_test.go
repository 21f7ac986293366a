package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joaopmafra/sapie/internal/config"
	"github.com/joaopmafra/sapie/internal/database"
	"github.com/joaopmafra/sapie/internal/identity"
	"github.com/joaopmafra/sapie/internal/middleware"
	"github.com/joaopmafra/sapie/internal/models"
	"github.com/joaopmafra/sapie/internal/services"
	"github.com/joaopmafra/sapie/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	verifier *identity.Verifier
	storage  *fakeObjectStore
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating schema: %v", err)
	}

	verifier := identity.NewVerifier(db, config.AuthConfig{Secret: "test-secret", ExpirationHours: 24})
	contentService := services.NewContentService(db)
	store := newFakeObjectStore()

	healthHandler := NewHealthHandler("test")
	authHandler := NewAuthHandler(verifier)
	contentHandler := NewContentHandler(contentService, store)

	authMiddleware := middleware.NewAuthMiddleware(verifier)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS("http://localhost:5173"))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	api := app.Group("/api")
	api.Get("/health", healthHandler.Check)
	api.Get("/auth", authMiddleware.RequireAuth, authHandler.Me)

	contentRoutes := api.Group("/content", authMiddleware.RequireAuth)
	contentRoutes.Get("/root", contentHandler.GetRoot)
	contentRoutes.Get("/", contentHandler.List)
	contentRoutes.Post("/", contentHandler.Create)
	contentRoutes.Get("/:id/payload", contentHandler.DownloadPayload)
	contentRoutes.Put("/:id/payload", contentHandler.UploadPayload)
	contentRoutes.Get("/:id", contentHandler.Get)

	return &testEnv{app: app, db: db, verifier: verifier, storage: store}
}

// fakeObjectStore is a map-backed ObjectStore for handler tests.
type fakeObjectStore struct {
	objects map[string]fakeObject
}

type fakeObject struct {
	data        []byte
	contentType string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]fakeObject)}
}

func (f *fakeObjectStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectName] = fakeObject{data: data, contentType: contentType}
	return nil
}

func (f *fakeObjectStore) Download(_ context.Context, objectName string) (io.ReadCloser, string, int64, error) {
	obj, ok := f.objects[objectName]
	if !ok {
		return nil, "", 0, fmt.Errorf("object %s not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, int64(len(obj.data)), nil
}

func createTestUser(t *testing.T, env *testEnv, email string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Email:         email,
		DisplayName:   "Test User",
		EmailVerified: true,
		ProviderID:    "password",
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := env.verifier.MintToken(user)
	if err != nil {
		t.Fatalf("failed minting auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("failed performing request %s %s: %v", method, path, err)
	}
	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed marshaling request body: %v", err)
	}

	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"

	return performRequest(t, app, method, path, bytes.NewReader(data), headers)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed decoding response body: %v", err)
	}
	return body
}

func decodeJSONSlice(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()

	defer resp.Body.Close()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed decoding response body: %v", err)
	}
	return body
}

func assertErrorResponse(t *testing.T, statusCode int, body map[string]any, expectedStatus int, expectedMessage string) {
	t.Helper()

	if statusCode != expectedStatus {
		t.Fatalf("expected status code %d, got %d", expectedStatus, statusCode)
	}

	gotStatus, ok := body["statusCode"].(float64)
	if !ok {
		t.Fatalf("expected statusCode field to be a number, got %T", body["statusCode"])
	}
	if int(gotStatus) != expectedStatus {
		t.Fatalf("expected body statusCode %d, got %d", expectedStatus, int(gotStatus))
	}

	message, ok := body["message"].(string)
	if !ok {
		t.Fatalf("expected message field to be string, got %T", body["message"])
	}
	if message != expectedMessage {
		t.Fatalf("expected message %q, got %q", expectedMessage, message)
	}
}
