package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"goclinic/internal/pkg/database"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "clinics_subdomain_key"}

	assert.True(t, database.IsUniqueViolation(dup, ""))
	assert.True(t, database.IsUniqueViolation(dup, "clinics_subdomain_key"))
	assert.True(t, database.IsUniqueViolation(fmt.Errorf("insert: %w", dup), "clinics_subdomain_key"))
	assert.False(t, database.IsUniqueViolation(dup, "users_email_key"))
	assert.False(t, database.IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, database.IsUniqueViolation(errors.New("connection refused"), ""))
}
