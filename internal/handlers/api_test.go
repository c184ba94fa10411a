package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	return router.NewRouter(db)
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	ErrorName  string `json:"error"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

type userBody struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Slug  string `json:"slug"`
}

type authBody struct {
	User        userBody `json:"user"`
	AccessToken string   `json:"access_token"`
}

type projectBody struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	UserID      uint      `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type taskBody struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	ProjectID uint   `json:"projectId"`
}

func registerUser(t *testing.T, r *gin.Engine, email string) authBody {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out authBody
	decodeBody(t, w, &out)
	require.NotEmpty(t, out.AccessToken)
	return out
}

func TestRegisterLoginAndMe(t *testing.T) {
	r := setupServer(t)

	registered := registerUser(t, r, "ada@example.com")
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.NotZero(t, registered.User.ID)

	w := doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login authBody
	decodeBody(t, w, &login)
	assert.Equal(t, registered.User.ID, login.User.ID)

	w = doRequest(t, r, http.MethodGet, "/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		User userBody `json:"user"`
	}
	decodeBody(t, w, &me)
	assert.Equal(t, "ada@example.com", me.User.Email)
}

func TestRegisterDuplicateEmailReturnsConflict(t *testing.T) {
	r := setupServer(t)

	registerUser(t, r, "ada@example.com")

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "ada@example.com",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope errorEnvelope
	decodeBody(t, w, &envelope)
	assert.Equal(t, http.StatusConflict, envelope.StatusCode)
	assert.Equal(t, "Conflict", envelope.ErrorName)
	assert.Equal(t, "/auth/register", envelope.Path)
	assert.NotEmpty(t, envelope.Timestamp)
}

func TestRegisterValidation(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope errorEnvelope
	decodeBody(t, w, &envelope)
	assert.Equal(t, "Validation Error", envelope.ErrorName)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r := setupServer(t)

	registerUser(t, r, "ada@example.com")

	wMissing := doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "whatever-at-all",
	})
	wWrong := doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, wMissing.Code)
	require.Equal(t, http.StatusUnauthorized, wWrong.Code)

	var missing, wrong errorEnvelope
	decodeBody(t, wMissing, &missing)
	decodeBody(t, wWrong, &wrong)
	assert.Equal(t, missing.Message, wrong.Message)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope errorEnvelope
	decodeBody(t, w, &envelope)
	assert.Equal(t, "Unauthorized", envelope.ErrorName)
}

func TestMalformedTokenIsUnauthorized(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/projects", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, err := http.NewRequest(http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "NotBearer something")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "connected", body.Database)
}

func projectPath(id uint) string {
	return fmt.Sprintf("/projects/%d", id)
}

func taskPath(id uint) string {
	return fmt.Sprintf("/tasks/%d", id)
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
