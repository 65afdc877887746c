//go:build integration

package userrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/repository/clinicrepo"
	"goclinic/internal/repository/userrepo"
	"goclinic/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	tenant := uuid.NewString()

	clinics := clinicrepo.NewClinicRepository(db, testutil.NewMemoryCache(), 5*time.Second, time.Minute, logger.NewNop())
	clinic, err := clinics.Create(ctx, domain.Clinic{
		ID:        uuid.NewString(),
		TenantID:  tenant,
		Name:      "Clínica Central",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	repo := userrepo.NewUserRepository(db, 5*time.Second, logger.NewNop())

	doctor, err := repo.Save(ctx, domain.User{
		TenantID:                    tenant,
		ClinicID:                    &clinic.ID,
		Name:                        "Ana",
		Email:                       "ana@clinica.com",
		PasswordHash:                "hash",
		Role:                        domain.RoleDoctor,
		ShowInAppointmentScheduling: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doctor.ID)

	_, err = repo.Save(ctx, domain.User{
		TenantID:     tenant,
		ClinicID:     &clinic.ID,
		Name:         "Bruno",
		Email:        "bruno@clinica.com",
		PasswordHash: "hash",
		Role:         domain.RoleReceptionist,
	})
	require.NoError(t, err)

	t.Run("email duplicado", func(t *testing.T) {
		_, err := repo.Save(ctx, domain.User{TenantID: tenant, Name: "Ana 2", Email: "ana@clinica.com", PasswordHash: "x", Role: domain.RoleNurse})
		var conflict *apperror.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("busca por email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ana@clinica.com")
		require.NoError(t, err)
		assert.Equal(t, doctor.ID, found.ID)
		require.NotNil(t, found.ClinicID)
		assert.Equal(t, clinic.ID, *found.ClinicID)
		assert.True(t, found.IsProfessional())

		_, err = repo.FindByEmail(ctx, "ninguem@clinica.com")
		var notFound *apperror.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("usuários da clínica", func(t *testing.T) {
		users, err := repo.FindByClinic(ctx, clinic.ID)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Ana", users[0].Name)
	})
}
