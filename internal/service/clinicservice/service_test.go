package clinicservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/metrics"
	"goclinic/internal/service/clinicservice"
)

// MockClinicRepository é uma implementação mock da interface domain.ClinicRepository
type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) Create(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error) {
	args := m.Called(ctx, clinic)
	if echo, ok := args.Get(0).(func(domain.Clinic) domain.Clinic); ok {
		return echo(clinic), args.Error(1)
	}
	return args.Get(0).(domain.Clinic), args.Error(1)
}

func (m *MockClinicRepository) FindByID(ctx context.Context, id string) (domain.Clinic, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Clinic), args.Error(1)
}

func (m *MockClinicRepository) FindBySubdomain(ctx context.Context, subdomain string) (domain.Clinic, error) {
	args := m.Called(ctx, subdomain)
	return args.Get(0).(domain.Clinic), args.Error(1)
}

func (m *MockClinicRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]domain.Clinic, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Update(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error) {
	args := m.Called(ctx, clinic)
	return args.Get(0).(domain.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

// echoClinic devolve a clínica recebida pelo mock.
func echoClinic(c domain.Clinic) domain.Clinic { return c }

func newService(repo *MockClinicRepository) *clinicservice.Service {
	return clinicservice.NewService(repo, logger.NewNop())
}

func TestCreateClinic_NormalizesSubdomain(t *testing.T) {
	repo := new(MockClinicRepository)
	svc := newService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Clinic) bool {
		return c.SubdomainValue() == "clinica-sorriso" && c.ID != "" && c.DefaultAppointmentDuration == 30
	})).Return(echoClinic, nil)

	created, err := svc.CreateClinic(context.Background(), domain.Clinic{
		TenantID: uuid.NewString(),
		Name:     "  Clínica Sorriso ",
	}, strPtr("  Clinica-Sorriso "))

	require.NoError(t, err)
	assert.Equal(t, "clinica-sorriso", created.SubdomainValue())
	assert.Equal(t, "Clínica Sorriso", created.Name)
	repo.AssertExpectations(t)
}

func TestCreateClinic_InvalidSubdomainNeverReachesRepo(t *testing.T) {
	repo := new(MockClinicRepository)
	svc := newService(repo)
	before := testutil.ToFloat64(metrics.SubdomainChangesTotal.WithLabelValues("invalid"))

	_, err := svc.CreateClinic(context.Background(), domain.Clinic{
		TenantID: uuid.NewString(),
		Name:     "Clínica",
	}, strPtr("-bad"))

	var invalid *apperror.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "subdomain", invalid.Field)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SubdomainChangesTotal.WithLabelValues("invalid")))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateClinic_Validation(t *testing.T) {
	cases := []struct {
		name   string
		clinic domain.Clinic
	}{
		{"tenant inválido", domain.Clinic{TenantID: "x", Name: "Clínica"}},
		{"nome vazio", domain.Clinic{TenantID: uuid.NewString(), Name: "   "}},
		{"duração negativa", domain.Clinic{TenantID: uuid.NewString(), Name: "Clínica", DefaultAppointmentDuration: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockClinicRepository)
			_, err := newService(repo).CreateClinic(context.Background(), tc.clinic, nil)

			var validation *apperror.ValidationError
			assert.ErrorAs(t, err, &validation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateClinic_ConflictPropagates(t *testing.T) {
	repo := new(MockClinicRepository)
	svc := newService(repo)
	before := testutil.ToFloat64(metrics.SubdomainChangesTotal.WithLabelValues("conflict"))

	repo.On("Create", mock.Anything, mock.Anything).
		Return(domain.Clinic{}, apperror.NewConflictError("O subdomínio 'sorriso' já está em uso."))

	_, err := svc.CreateClinic(context.Background(), domain.Clinic{TenantID: uuid.NewString(), Name: "Clínica"}, strPtr("sorriso"))

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SubdomainChangesTotal.WithLabelValues("conflict")))
}

func TestGetClinicByID_InvalidUUID(t *testing.T) {
	repo := new(MockClinicRepository)

	_, err := newService(repo).GetClinicByID(context.Background(), "nao-e-uuid")

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetClinicByID_NotFound(t *testing.T) {
	repo := new(MockClinicRepository)
	id := uuid.NewString()
	repo.On("FindByID", mock.Anything, id).Return(domain.Clinic{}, apperror.NewNotFoundError("Clínica não encontrada."))

	_, err := newService(repo).GetClinicByID(context.Background(), id)

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	repo.AssertExpectations(t)
}

func TestGetClinicBySubdomain(t *testing.T) {
	t.Run("normaliza antes da busca", func(t *testing.T) {
		repo := new(MockClinicRepository)
		expected := domain.Clinic{ID: uuid.NewString(), Subdomain: strPtr("sorriso")}
		repo.On("FindBySubdomain", mock.Anything, "sorriso").Return(expected, nil)

		clinic, err := newService(repo).GetClinicBySubdomain(context.Background(), "SORRISO")

		require.NoError(t, err)
		assert.Equal(t, expected, clinic)
		repo.AssertExpectations(t)
	})

	t.Run("formato inválido", func(t *testing.T) {
		repo := new(MockClinicRepository)

		_, err := newService(repo).GetClinicBySubdomain(context.Background(), "ab")

		var invalid *apperror.InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, invalid.Error(), "between 3 and 63")
		repo.AssertNotCalled(t, "FindBySubdomain", mock.Anything, mock.Anything)
	})
}

func TestListClinics(t *testing.T) {
	repo := new(MockClinicRepository)
	tenant := uuid.NewString()
	expected := []domain.Clinic{{ID: uuid.NewString(), TenantID: tenant, Name: "A"}}
	repo.On("FindAllByTenant", mock.Anything, tenant).Return(expected, nil)

	clinics, err := newService(repo).ListClinics(context.Background(), tenant)

	require.NoError(t, err)
	assert.Equal(t, expected, clinics)
	repo.AssertExpectations(t)
}

func TestUpdateClinic_PreservesSubdomain(t *testing.T) {
	repo := new(MockClinicRepository)
	svc := newService(repo)
	id := uuid.NewString()
	tenant := uuid.NewString()

	repo.On("FindByID", mock.Anything, id).Return(domain.Clinic{
		ID: id, TenantID: tenant, Name: "Antiga", Subdomain: strPtr("sorriso"), DefaultAppointmentDuration: 30,
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Clinic) bool {
		return c.Name == "Nova" && c.SubdomainValue() == "sorriso" && c.TenantID == tenant && c.Phone == "1199999"
	})).Return(domain.Clinic{ID: id, Name: "Nova", Subdomain: strPtr("sorriso")}, nil)

	updated, err := svc.UpdateClinic(context.Background(), domain.Clinic{
		ID: id, TenantID: "ignorado", Name: "Nova", Phone: "1199999", Subdomain: strPtr("outro"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Nova", updated.Name)
	repo.AssertExpectations(t)
}

func TestUpdateSubdomain(t *testing.T) {
	id := uuid.NewString()
	existing := domain.Clinic{ID: id, Name: "Clínica", Subdomain: strPtr("antigo")}

	t.Run("define novo valor", func(t *testing.T) {
		repo := new(MockClinicRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Clinic) bool {
			return c.SubdomainValue() == "novo"
		})).Return(domain.Clinic{ID: id, Subdomain: strPtr("novo")}, nil)

		updated, err := newService(repo).UpdateSubdomain(context.Background(), id, strPtr("NOVO"))

		require.NoError(t, err)
		assert.Equal(t, "novo", updated.SubdomainValue())
		repo.AssertExpectations(t)
	})

	t.Run("string vazia limpa", func(t *testing.T) {
		repo := new(MockClinicRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Clinic) bool {
			return !c.HasSubdomain()
		})).Return(domain.Clinic{ID: id}, nil)

		updated, err := newService(repo).UpdateSubdomain(context.Background(), id, strPtr("   "))

		require.NoError(t, err)
		assert.Nil(t, updated.Subdomain)
		repo.AssertExpectations(t)
	})

	t.Run("valor inválido não persiste", func(t *testing.T) {
		repo := new(MockClinicRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing, nil)

		_, err := newService(repo).UpdateSubdomain(context.Background(), id, strPtr("ab_c"))

		var invalid *apperror.InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, invalid.Error(), "lowercase letters, numbers, and hyphens")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteClinic(t *testing.T) {
	repo := new(MockClinicRepository)
	id := uuid.NewString()
	repo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, newService(repo).DeleteClinic(context.Background(), id))
	repo.AssertExpectations(t)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://sorriso.goclinic.app", clinicservice.PublicURL(domain.Clinic{Subdomain: strPtr("sorriso")}, "goclinic.app"))
	assert.Equal(t, "https://sorriso.goclinic.app", clinicservice.PublicURL(domain.Clinic{Subdomain: strPtr("sorriso")}, ".goclinic.app"))
	assert.Empty(t, clinicservice.PublicURL(domain.Clinic{}, "goclinic.app"))
}
