package request

import "goclinic/internal/domain"

// ClinicRequest é o payload de criação e atualização de clínica.
// O subdomínio é validado pelo domínio, não pelas tags.
type ClinicRequest struct {
	TenantID                   string  `json:"tenant_id,omitempty" validate:"omitempty,uuid"`
	Name                       string  `json:"name" validate:"required,max=200"`
	TradeName                  string  `json:"trade_name,omitempty" validate:"max=200"`
	Document                   string  `json:"document,omitempty" validate:"max=20"`
	Phone                      string  `json:"phone,omitempty" validate:"max=30"`
	Email                      string  `json:"email,omitempty" validate:"omitempty,email"`
	Address                    string  `json:"address,omitempty"`
	OpeningHours               string  `json:"opening_hours,omitempty"`
	DefaultAppointmentDuration int     `json:"default_appointment_duration,omitempty" validate:"gte=0"`
	Subdomain                  *string `json:"subdomain,omitempty"`
}

// ToDomain converte o payload na entidade, sem subdomínio.
func (r ClinicRequest) ToDomain() domain.Clinic {
	return domain.Clinic{
		TenantID:                   r.TenantID,
		Name:                       r.Name,
		TradeName:                  r.TradeName,
		Document:                   r.Document,
		Phone:                      r.Phone,
		Email:                      r.Email,
		Address:                    r.Address,
		OpeningHours:               r.OpeningHours,
		DefaultAppointmentDuration: r.DefaultAppointmentDuration,
	}
}

// SubdomainRequest define (valor) ou limpa (null ou "") o subdomínio.
type SubdomainRequest struct {
	Subdomain *string `json:"subdomain"`
}

// RegisterRequest é o payload de POST /v1/register.
// Papéis administrativos são recusados pelo serviço nesse endpoint.
type RegisterRequest struct {
	TenantID                    string  `json:"tenant_id" validate:"required,uuid"`
	ClinicID                    *string `json:"clinic_id,omitempty" validate:"omitempty,uuid"`
	Name                        string  `json:"name" validate:"required,max=200"`
	Email                       string  `json:"email" validate:"required,email"`
	Phone                       string  `json:"phone,omitempty" validate:"max=30"`
	Password                    string  `json:"password" validate:"required,min=8"`
	Role                        string  `json:"role,omitempty" validate:"omitempty,user_role"`
	ShowInAppointmentScheduling *bool   `json:"show_in_appointment_scheduling,omitempty"`
}

// ToDomain converte o payload; a visibilidade na agenda é true por padrão.
func (r RegisterRequest) ToDomain() domain.UserRegistration {
	show := true
	if r.ShowInAppointmentScheduling != nil {
		show = *r.ShowInAppointmentScheduling
	}
	return domain.UserRegistration{
		TenantID:                    r.TenantID,
		ClinicID:                    r.ClinicID,
		Name:                        r.Name,
		Email:                       r.Email,
		Phone:                       r.Phone,
		Password:                    r.Password,
		Role:                        domain.UserRole(r.Role),
		ShowInAppointmentScheduling: show,
	}
}

// CreateUserRequest é o payload de POST /v1/users (administradores).
// O tenant só é considerado quando o autor é SystemAdmin.
type CreateUserRequest struct {
	TenantID                    string  `json:"tenant_id,omitempty" validate:"omitempty,uuid"`
	ClinicID                    *string `json:"clinic_id,omitempty" validate:"omitempty,uuid"`
	Name                        string  `json:"name" validate:"required,max=200"`
	Email                       string  `json:"email" validate:"required,email"`
	Phone                       string  `json:"phone,omitempty" validate:"max=30"`
	Password                    string  `json:"password" validate:"required,min=8"`
	Role                        string  `json:"role" validate:"required,user_role"`
	ShowInAppointmentScheduling *bool   `json:"show_in_appointment_scheduling,omitempty"`
}

func (r CreateUserRequest) ToDomain() domain.UserRegistration {
	return RegisterRequest{
		TenantID:                    r.TenantID,
		ClinicID:                    r.ClinicID,
		Name:                        r.Name,
		Email:                       r.Email,
		Phone:                       r.Phone,
		Password:                    r.Password,
		Role:                        r.Role,
		ShowInAppointmentScheduling: r.ShowInAppointmentScheduling,
	}.ToDomain()
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
