package apperrors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var (
	// ErrForbidden signals the acting user lacks rights over the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInUse signals an entity cannot be deleted while other rows reference it.
	ErrInUse = errors.New("still referenced")
)

// HTTP converts repository and storage errors into echo HTTP errors.
// Keeps handlers clean by centralizing the mapping.
func HTTP(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return echo.NewHTTPError(http.StatusConflict, "already exists")

	case errors.Is(err, ErrInUse):
		return echo.NewHTTPError(http.StatusConflict, "cannot delete: still referenced")

	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "you are not allowed to perform this action")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
