package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID                          string    `json:"id"`
	TenantID                    string    `json:"tenant_id"`
	ClinicID                    *string   `json:"clinic_id,omitempty"`
	Name                        string    `json:"name"`
	Email                       string    `json:"email"`
	Phone                       string    `json:"phone,omitempty"`
	PasswordHash                string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role                        UserRole  `json:"role"`
	ShowInAppointmentScheduling bool      `json:"show_in_appointment_scheduling"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// IsProfessional indica se o papel do usuário é clínico.
// Depende apenas de Role; ShowInAppointmentScheduling é um filtro de agenda.
func (u User) IsProfessional() bool {
	return u.Role.IsProfessional()
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleSystemAdmin  UserRole = "SystemAdmin"
	RoleClinicOwner  UserRole = "ClinicOwner"
	RoleReceptionist UserRole = "Receptionist"
	RoleSecretary    UserRole = "Secretary"
	RoleDoctor       UserRole = "Doctor"
	RoleDentist      UserRole = "Dentist"
	RoleNurse        UserRole = "Nurse"
	RolePsychologist UserRole = "Psychologist"
)

// roleIsProfessional é a tabela fechada de papéis: presença = papel válido,
// valor = papel clínico.
var roleIsProfessional = map[UserRole]bool{
	RoleSystemAdmin:  false,
	RoleClinicOwner:  false,
	RoleReceptionist: false,
	RoleSecretary:    false,
	RoleDoctor:       true,
	RoleDentist:      true,
	RoleNurse:        true,
	RolePsychologist: true,
}

// AllRoles retorna a enumeração completa na ordem de declaração.
func AllRoles() []UserRole {
	return []UserRole{
		RoleSystemAdmin,
		RoleClinicOwner,
		RoleReceptionist,
		RoleSecretary,
		RoleDoctor,
		RoleDentist,
		RoleNurse,
		RolePsychologist,
	}
}

func (r UserRole) IsValid() bool {
	_, ok := roleIsProfessional[r]
	return ok
}

func (r UserRole) IsProfessional() bool {
	return roleIsProfessional[r]
}

// IsPrivileged indica papéis administrativos, que não podem ser obtidos pelo registro público.
func (r UserRole) IsPrivileged() bool {
	return r == RoleSystemAdmin || r == RoleClinicOwner
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	TenantID                    string   `json:"tenant_id"`
	ClinicID                    *string  `json:"clinic_id,omitempty"`
	Name                        string   `json:"name"`
	Email                       string   `json:"email"`
	Phone                       string   `json:"phone,omitempty"`
	Password                    string   `json:"password"`
	Role                        UserRole `json:"role"`
	ShowInAppointmentScheduling bool     `json:"show_in_appointment_scheduling"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByClinic(ctx context.Context, clinicID string) ([]User, error)
}
