package clinicservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/metrics"
)

// Service implementa as regras de negócio de clínicas.
type Service struct {
	repo   domain.ClinicRepository
	logger logger.Logger
	now    func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Clínicas.
func NewService(repo domain.ClinicRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// CreateClinic valida os dados básicos, aplica o subdomínio e persiste a clínica.
func (s *Service) CreateClinic(ctx context.Context, clinic domain.Clinic, subdomain *string) (domain.Clinic, error) {
	s.logger.Debug("Iniciando criação de clínica no serviço.", map[string]interface{}{"name": clinic.Name, "tenant_id": clinic.TenantID})

	if _, err := uuid.Parse(clinic.TenantID); err != nil {
		s.logger.Warn("Tenant ID inválido.", map[string]interface{}{"tenant_id": clinic.TenantID})
		return domain.Clinic{}, apperror.NewValidationError("O tenant_id deve ser um UUID válido.")
	}
	if err := validateClinicFields(&clinic); err != nil {
		s.logger.Warn("Falha na validação da clínica.", map[string]interface{}{"name": clinic.Name, "error": err.Error()})
		return domain.Clinic{}, err
	}
	if err := clinic.SetSubdomain(subdomain); err != nil {
		metrics.SubdomainChangesTotal.WithLabelValues("invalid").Inc()
		s.logger.Warn("Subdomínio inválido na criação da clínica.", map[string]interface{}{"error": err.Error()})
		return domain.Clinic{}, err
	}

	clinic.ID = uuid.NewString()
	clinic.CreatedAt = s.now()
	clinic.UpdatedAt = clinic.CreatedAt

	created, err := s.repo.Create(ctx, clinic)
	if err != nil {
		s.recordConflict(err)
		return domain.Clinic{}, err
	}

	if created.HasSubdomain() {
		metrics.SubdomainChangesTotal.WithLabelValues("set").Inc()
	}
	s.logger.Info("Clínica criada com sucesso.", map[string]interface{}{"id": created.ID, "subdomain": created.SubdomainValue()})
	return created, nil
}

// GetClinicByID busca uma clínica pelo ID após validação de formato.
func (s *Service) GetClinicByID(ctx context.Context, id string) (domain.Clinic, error) {
	if err := validateID(id); err != nil {
		s.logger.Warn("ID de clínica inválido fornecido.", map[string]interface{}{"id": id})
		return domain.Clinic{}, err
	}

	clinic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Clinic{}, err
	}
	return clinic, nil
}

// GetClinicBySubdomain normaliza o subdomínio e resolve a clínica.
// Um subdomínio fora do formato nunca chega ao repositório.
func (s *Service) GetClinicBySubdomain(ctx context.Context, subdomain string) (domain.Clinic, error) {
	s.logger.Debug("Resolvendo clínica por subdomínio.", map[string]interface{}{"subdomain": subdomain})

	normalized, err := domain.ValidateSubdomain(subdomain)
	if err != nil {
		s.logger.Warn("Subdomínio de busca inválido.", map[string]interface{}{"subdomain": subdomain, "error": err.Error()})
		return domain.Clinic{}, err
	}

	return s.repo.FindBySubdomain(ctx, normalized)
}

// ListClinics lista as clínicas do tenant.
func (s *Service) ListClinics(ctx context.Context, tenantID string) ([]domain.Clinic, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, apperror.NewValidationError("O tenant_id deve ser um UUID válido.")
	}

	clinics, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Clínicas listadas.", map[string]interface{}{"tenant_id": tenantID, "count": len(clinics)})
	return clinics, nil
}

// UpdateClinic atualiza os dados cadastrais. Subdomínio e tenant são preservados;
// a troca de subdomínio passa por UpdateSubdomain.
func (s *Service) UpdateClinic(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error) {
	s.logger.Debug("Iniciando atualização de clínica no serviço.", map[string]interface{}{"id": clinic.ID})

	if err := validateID(clinic.ID); err != nil {
		return domain.Clinic{}, err
	}
	if err := validateClinicFields(&clinic); err != nil {
		s.logger.Warn("Falha na validação da clínica para atualização.", map[string]interface{}{"id": clinic.ID, "error": err.Error()})
		return domain.Clinic{}, err
	}

	current, err := s.repo.FindByID(ctx, clinic.ID)
	if err != nil {
		return domain.Clinic{}, err
	}

	current.Name = clinic.Name
	current.TradeName = clinic.TradeName
	current.Document = clinic.Document
	current.Phone = clinic.Phone
	current.Email = clinic.Email
	current.Address = clinic.Address
	current.OpeningHours = clinic.OpeningHours
	current.DefaultAppointmentDuration = clinic.DefaultAppointmentDuration
	current.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.Clinic{}, err
	}

	s.logger.Info("Clínica atualizada com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// UpdateSubdomain define ou limpa o subdomínio da clínica.
// Se o valor for inválido nada é persistido.
func (s *Service) UpdateSubdomain(ctx context.Context, id string, subdomain *string) (domain.Clinic, error) {
	s.logger.Debug("Iniciando alteração de subdomínio.", map[string]interface{}{"id": id})

	if err := validateID(id); err != nil {
		return domain.Clinic{}, err
	}

	clinic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Clinic{}, err
	}

	if err := clinic.SetSubdomain(subdomain); err != nil {
		metrics.SubdomainChangesTotal.WithLabelValues("invalid").Inc()
		s.logger.Warn("Subdomínio rejeitado.", map[string]interface{}{"id": id, "error": err.Error()})
		return domain.Clinic{}, err
	}
	clinic.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, clinic)
	if err != nil {
		s.recordConflict(err)
		return domain.Clinic{}, err
	}

	result := "set"
	if !updated.HasSubdomain() {
		result = "cleared"
	}
	metrics.SubdomainChangesTotal.WithLabelValues(result).Inc()

	s.logger.Info("Subdomínio atualizado.", map[string]interface{}{"id": id, "subdomain": updated.SubdomainValue()})
	return updated, nil
}

// DeleteClinic remove a clínica.
func (s *Service) DeleteClinic(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Clínica deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// PublicURL monta o endereço público da clínica, ou "" sem subdomínio.
func PublicURL(clinic domain.Clinic, baseDomain string) string {
	if !clinic.HasSubdomain() || baseDomain == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.%s", clinic.SubdomainValue(), strings.TrimPrefix(baseDomain, "."))
}

func (s *Service) recordConflict(err error) {
	var conflict *apperror.ConflictError
	if errors.As(err, &conflict) {
		metrics.SubdomainChangesTotal.WithLabelValues("conflict").Inc()
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da clínica deve ser um UUID válido.")
	}
	return nil
}

// validateClinicFields normaliza o nome e aplica a duração padrão de consulta.
func validateClinicFields(clinic *domain.Clinic) error {
	clinic.Name = strings.TrimSpace(clinic.Name)
	if clinic.Name == "" {
		return apperror.NewValidationError("O nome da clínica não pode ser vazio.")
	}
	if len(clinic.Name) > 200 {
		return apperror.NewValidationError("O nome da clínica deve ter no máximo 200 caracteres.")
	}
	if clinic.DefaultAppointmentDuration == 0 {
		clinic.DefaultAppointmentDuration = domain.DefaultAppointmentDuration
	}
	if clinic.DefaultAppointmentDuration < 0 {
		return apperror.NewValidationError("A duração padrão da consulta deve ser positiva.")
	}
	return nil
}
