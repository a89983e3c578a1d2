package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errFirebaseNoEmail = errors.New("firebase token carries no email claim")

// AuthHandler handles registration and login.
type AuthHandler struct {
	store        *repositories.Store
	firebaseAuth *auth.Client // nil unless Firebase login is configured
	jwtSecret    string
}

// NewAuthHandler creates a new AuthHandler. firebaseAuthClient may be nil.
func NewAuthHandler(store *repositories.Store, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		store:        store,
		firebaseAuth: firebaseAuthClient,
		jwtSecret:    jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register creates a new account. The very first registered account gets the
// admin role so a fresh deployment has a moderator.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
		IsActive:     true,
	}

	err = h.store.Atomic(func(tx *repositories.Store) error {
		count, err := tx.Users.Count()
		if err != nil {
			return err
		}
		if count == 0 {
			user.Role = models.RoleAdmin
		}
		// Duplicate username/email surfaces as gorm.ErrDuplicatedKey.
		return tx.Users.Create(user)
	})
	if err != nil {
		return apperrors.HTTP(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// Login authenticates by username or email. Deactivated accounts are refused.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.store.Users.ByUsernameOrEmail(req.UsernameOrEmail)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "Account is deactivated")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// FirebaseLogin exchanges a verified Firebase ID token for a local JWT.
// The local account is resolved by linked UID, then by email (linking the
// UID on first login), and is provisioned if neither exists. Available only
// when the server was started with Firebase credentials.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "Firebase login is not configured")
	}

	var req struct {
		IDToken string `json:"id_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.resolveFirebaseUser(token.UID, email, name)
	if errors.Is(err, errFirebaseNoEmail) {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email to link")
	}
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "Account is deactivated")
	}

	jwtToken, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": jwtToken, "user": user})
}

// resolveFirebaseUser finds the local account for a verified Firebase
// identity. Lookup order: previously linked UID, then email (the UID is
// persisted so later logins hit the first path), otherwise a new account is
// provisioned.
func (h *AuthHandler) resolveFirebaseUser(uid, email, name string) (*models.User, error) {
	user, err := h.store.Users.ByFirebaseUID(uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if email == "" {
		return nil, errFirebaseNoEmail
	}

	user, err = h.store.Users.ByEmail(email)
	if err == nil {
		user.FirebaseUID = uid
		if err := h.store.Users.Update(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return h.provisionFirebaseUser(uid, email, name)
}

// provisionFirebaseUser creates an account for a Firebase identity seen for
// the first time. No password is set; such accounts can only log in through
// Firebase. The first account ever created gets the admin role, same as
// password registration. Username collisions get a numeric suffix.
func (h *AuthHandler) provisionFirebaseUser(uid, email, name string) (*models.User, error) {
	base := usernameFromIdentity(name, email)

	for attempt := 0; attempt < 5; attempt++ {
		username := base
		if attempt > 0 {
			username = fmt.Sprintf("%s%d", base, attempt)
		}

		user := &models.User{
			Username:    username,
			Email:       email,
			FirebaseUID: uid,
			Role:        models.RoleUser,
			IsActive:    true,
		}
		err := h.store.Atomic(func(tx *repositories.Store) error {
			count, err := tx.Users.Count()
			if err != nil {
				return err
			}
			if count == 0 {
				user.Role = models.RoleAdmin
			}
			return tx.Users.Create(user)
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, gorm.ErrDuplicatedKey
}

// usernameFromIdentity derives a username from the Firebase display name,
// falling back to the email local part.
func usernameFromIdentity(name, email string) string {
	base := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if base == "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	if len(base) < 3 {
		base = "user_" + base
	}
	if len(base) > 40 {
		base = base[:40]
	}
	return base
}

func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
