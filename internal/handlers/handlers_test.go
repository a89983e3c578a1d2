package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/policy"
	"github.com/otakusphere/backend/internal/repositories"
	"github.com/otakusphere/backend/validators"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	echo  *echo.Echo
	store *repositories.Store
	pol   *policy.Policy
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Post{},
		&models.PostMedia{},
		&models.Comment{},
		&models.PostLike{},
		&models.Friendship{},
		&models.Notification{},
	))

	e := echo.New()
	e.Validator = validators.NewValidator()

	pol, err := policy.New()
	require.NoError(t, err)

	return &testEnv{echo: e, store: repositories.NewStore(db), pol: pol}
}

func (env *testEnv) user(t *testing.T, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, env.store.Users.Create(u))
	return u
}

// request builds a context authenticated as actor. Path params are given as
// alternating name/value pairs.
func (env *testEnv) request(t *testing.T, method, path, body string, actor *models.User, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	if actor != nil {
		c.Set("user", &models.JwtCustomClaims{
			UserID:   actor.ID,
			Username: actor.Username,
			Role:     actor.Role,
		})
	}
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}
