package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/handlers"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/middleware"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/repositories"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/services"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
)

// newBackendStub fakes the catalog backend plus the upload endpoints with
// just enough behavior for the HTTP round trips in this file.
func newBackendStub() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/upload/images", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		type fileURL struct {
			URL string `json:"url"`
		}
		var files []fileURL
		for _, h := range r.MultipartForm.File["images"] {
			files = append(files, fileURL{URL: "https://cdn/" + h.Filename})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"files": files})
	})

	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		var payload catalog.ProductPayload
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(models.Product{
			ID:          "prod-1",
			Name:        payload.Name,
			CategoryID:  payload.CategoryID,
			Description: payload.Description,
			Images:      payload.Images,
			Status:      models.ProductPending,
		})
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	})

	mux.HandleFunc("/variants", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Variant{})
	})

	return httptest.NewServer(mux)
}

// setupApp builds a Fiber app wired like main: in-memory SQLite for the
// console's own data, the stub server standing in for the backend.
func setupApp(t *testing.T) (*fiber.App, repositories.AuditRepository) {
	t.Helper()

	backend := newBackendStub()
	t.Cleanup(backend.Close)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.AuditEntry{}))

	userRepo := repositories.NewGORMUserRepository(db)
	auditRepo := repositories.NewGORMAuditRepository(db)

	session := catalog.StaticToken("")
	api := catalog.NewClient(backend.URL, session)
	uploads := uploader.New(uploader.Config{BaseURL: backend.URL, Session: session})

	logger := zap.NewNop()
	catalogService := services.NewCatalogService(api, uploads, services.NopNotifier{}, auditRepo, logger, 10)
	authService := services.NewAuthService(userRepo, "test_jwt_secret", logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	productHandler := handlers.NewProductHandler(catalogService, logger)
	variantHandler := handlers.NewVariantHandler(catalogService, logger)
	referenceHandler := handlers.NewReferenceHandler(catalogService, logger)
	auditHandler := handlers.NewAuditHandler(auditRepo, logger)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	apiV1.Use(middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(apiV1)
	variantHandler.RegisterRoutes(apiV1)
	referenceHandler.RegisterRoutes(apiV1)
	auditHandler.RegisterRoutes(apiV1)

	return app, auditRepo
}

// TestMain suppresses logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// registerAndLogin creates an admin account and returns a valid token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body, _ = json.Marshal(map[string]string{
		"username": username,
		"password": "password123",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	token := registerAndLogin(t, app, "testuser")
	assert.NotEmpty(t, token)

	// Duplicate registration conflicts.
	body, _ := json.Marshal(map[string]string{
		"username": "testuser",
		"email":    "testuser@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password is rejected.
	body, _ = json.Marshal(map[string]string{
		"username": "testuser",
		"password": "wrongpassword",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestEndpointsRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/v1/products", "/api/v1/categories", "/api/v1/audit"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

// productForm builds the multipart body for a product submit.
func productForm(t *testing.T, fields map[string]string, images []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	for _, name := range images {
		part, err := writer.CreateFormFile("images", name)
		assert.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestProductCreateFlow(t *testing.T) {
	app, auditRepo := setupApp(t)
	token := registerAndLogin(t, app, "flowuser")

	body, contentType := productForm(t, map[string]string{
		"name":        "Summer Dress",
		"categoryId":  "cat-1",
		"description": "A light dress for warm days",
		"mainIndex":   "1",
	}, []string{"a.jpg", "b.jpg"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "prod-1", created.ID)
	assert.Len(t, created.Images, 2)
	assert.True(t, created.Images[1].IsMain)

	// The created product shows up in the listing.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Products []models.Product `json:"products"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	assert.Len(t, page.Products, 1)

	// The mutation was attributed to the logged-in admin in the audit
	// trail.
	entries, err := auditRepo.List(10)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "flowuser", entries[0].Actor)
	assert.Equal(t, "create", entries[0].Action)
}

func TestProductCreateValidationErrors(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "valuser")

	body, contentType := productForm(t, map[string]string{
		"name": "ab",
	}, []string{"a.jpg"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	assert.Equal(t, "Validation failed", envelope.Message)
	assert.Contains(t, envelope.Errors, "name")
	assert.Contains(t, envelope.Errors, "categoryId")
	assert.Contains(t, envelope.Errors, "description")
}

func TestVariantListRequiresProductID(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "variantuser")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/variants", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProductNotFound(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "lookupuser")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
