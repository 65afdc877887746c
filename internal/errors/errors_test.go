package errors_test

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "goclinic/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		category string
	}{
		{apperror.NewInvalidArgumentError("subdomain", "x"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{apperror.NewValidationError("x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperror.NewUnauthorizedError("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperror.NewForbiddenError("x"), http.StatusForbidden, "FORBIDDEN"},
		{apperror.NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{apperror.NewConflictError("x"), http.StatusConflict, "CONFLICT"},
		{apperror.NewInternalError("x", nil), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{fmt.Errorf("camada: %w", apperror.NewNotFoundError("x")), http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		status, category, _ := apperror.MapToHTTPStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.category, category, tc.err.Error())
	}
}

func TestInvalidArgumentError_CarriesFieldAndMessage(t *testing.T) {
	err := apperror.NewInvalidArgumentError("subdomain", "Subdomain must be between 3 and 63 characters")

	var invalid *apperror.InvalidArgumentError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, "subdomain", invalid.Field)
	assert.Contains(t, err.Error(), "Subdomain must be between 3 and 63 characters")
}

func TestDBError_UnwrapsCause(t *testing.T) {
	err := apperror.NewDBError("Falha ao buscar clínica", sql.ErrConnDone)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "(DB)")

	_, _, msg := apperror.MapToHTTPStatus(err)
	assert.NotContains(t, msg, sql.ErrConnDone.Error())
}
