package domain

import (
	"context"
	"regexp"
	"strings"
	"time"

	apperror "goclinic/internal/errors"
)

const (
	SubdomainMinLength = 3
	SubdomainMaxLength = 63

	// DefaultAppointmentDuration é usada quando a clínica não informa a duração (em minutos).
	DefaultAppointmentDuration = 30
)

const (
	msgSubdomainLength  = "Subdomain must be between 3 and 63 characters"
	msgSubdomainCharset = "Subdomain must contain only lowercase letters, numbers, and hyphens, and cannot start or end with a hyphen"
)

// subdomainPattern aceita rótulos DNS em minúsculas sem hífen nas pontas.
// O tamanho é verificado separadamente para produzir a mensagem correta.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Clinic representa uma clínica (tenant operacional) no sistema.
type Clinic struct {
	ID                         string    `json:"id"`
	TenantID                   string    `json:"tenant_id"`
	Name                       string    `json:"name"`
	TradeName                  string    `json:"trade_name,omitempty"`
	Document                   string    `json:"document,omitempty"` // CNPJ ou CPF
	Phone                      string    `json:"phone,omitempty"`
	Email                      string    `json:"email,omitempty"`
	Address                    string    `json:"address,omitempty"`
	OpeningHours               string    `json:"opening_hours,omitempty"`
	DefaultAppointmentDuration int       `json:"default_appointment_duration"` // minutos
	Subdomain                  *string   `json:"subdomain"`                    // nil = ausente
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// SetSubdomain normaliza e valida o subdomínio informado.
// nil, string vazia ou só espaços limpa o campo. Em caso de erro o valor
// anterior é preservado.
func (c *Clinic) SetSubdomain(input *string) error {
	if input == nil || strings.TrimSpace(*input) == "" {
		c.Subdomain = nil
		return nil
	}

	normalized, err := ValidateSubdomain(*input)
	if err != nil {
		return err
	}

	c.Subdomain = &normalized
	return nil
}

// HasSubdomain indica se a clínica possui subdomínio configurado.
func (c *Clinic) HasSubdomain() bool {
	return c.Subdomain != nil
}

// SubdomainValue retorna o subdomínio ou "" quando ausente.
func (c *Clinic) SubdomainValue() string {
	if c.Subdomain == nil {
		return ""
	}
	return *c.Subdomain
}

// ValidateSubdomain aplica lowercase à entrada inteira e valida o resultado,
// retornando o valor normalizado. Espaços não são removidos e falham no charset.
func ValidateSubdomain(input string) (string, error) {
	value := strings.ToLower(input)

	if len(value) < SubdomainMinLength || len(value) > SubdomainMaxLength {
		return "", apperror.NewInvalidArgumentError("subdomain", msgSubdomainLength)
	}
	if !subdomainPattern.MatchString(value) {
		return "", apperror.NewInvalidArgumentError("subdomain", msgSubdomainCharset)
	}

	return value, nil
}

// ClinicRepository define o contrato de persistência para a entidade Clinic.
type ClinicRepository interface {
	Create(ctx context.Context, clinic Clinic) (Clinic, error)
	FindByID(ctx context.Context, id string) (Clinic, error)
	FindBySubdomain(ctx context.Context, subdomain string) (Clinic, error)
	FindAllByTenant(ctx context.Context, tenantID string) ([]Clinic, error)
	Update(ctx context.Context, clinic Clinic) (Clinic, error)
	Delete(ctx context.Context, id string) error
}
