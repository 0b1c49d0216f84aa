package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_BASE_URL", "http://api.test")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every statement sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	DB = db

	r := gin.New()
	r.Use(CORSMiddleware())
	SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, r *gin.Engine, method, path, token string, fields map[string]string, fileField, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func registerUser(t *testing.T, r *gin.Engine, name, email, password, role string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
}

func loginUser(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// adminToken registers and logs in a fresh admin account.
func adminToken(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	rec := registerUser(t, r, "Admin", email, "secret123", RoleAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return loginUser(t, r, email, "secret123")
}

// memberToken registers and logs in a fresh regular member.
func memberToken(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	rec := registerUser(t, r, name, email, "secret123", RoleAnggota)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return loginUser(t, r, email, "secret123")
}
