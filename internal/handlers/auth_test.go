package handlers_test

import (
	"net/http"
	"testing"

	"github.com/otakusphere/backend/internal/handlers"
	"github.com/otakusphere/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "testsecret"

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.store, nil, testJWTSecret)

	c, rec := env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	alice, err := env.store.Users.ByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, alice.Role)

	c, rec = env.request(t, http.MethodPost, "/register",
		`{"username":"bob","email":"bob@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	bob, err := env.store.Users.ByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, bob.Role)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.store, nil, testJWTSecret)

	c, _ := env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))

	c, _ = env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"other@example.com","password":"secret123"}`, nil)
	err := h.Register(c)
	assert.Equal(t, http.StatusConflict, httpStatus(err))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.store, nil, testJWTSecret)

	// Password too short.
	c, _ := env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"abc"}`, nil)
	err := h.Register(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))

	// Not an email.
	c, _ = env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"not-an-email","password":"secret123"}`, nil)
	err = h.Register(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.store, nil, testJWTSecret)

	c, _ := env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))

	c, rec := env.request(t, http.MethodPost, "/login",
		`{"username_or_email":"alice","password":"secret123"}`, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = env.request(t, http.MethodPost, "/login",
		`{"username_or_email":"alice@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = env.request(t, http.MethodPost, "/login",
		`{"username_or_email":"alice","password":"wrong"}`, nil)
	err := h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.store, nil, testJWTSecret)

	c, _ := env.request(t, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))

	alice, err := env.store.Users.ByUsername("alice")
	require.NoError(t, err)
	require.NoError(t, env.store.Users.SetActive(alice.ID, false))

	c, _ = env.request(t, http.MethodPost, "/login",
		`{"username_or_email":"alice","password":"secret123"}`, nil)
	assert.Equal(t, http.StatusForbidden, httpStatus(h.Login(c)))
}

func TestFirebaseLoginUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.store, nil, testJWTSecret)

	c, _ := env.request(t, http.MethodPost, "/firebase-login", `{"id_token":"abc"}`, nil)
	assert.Equal(t, http.StatusNotImplemented, httpStatus(h.FirebaseLogin(c)))
}
