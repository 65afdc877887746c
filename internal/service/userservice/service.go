package userservice

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/metrics"
	"goclinic/internal/pkg/token"
)

const minPasswordLength = 8

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(id token.Identity) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register registra um novo usuário pelo endpoint público.
// Sem papel informado o usuário entra como Receptionist; papéis administrativos são recusados.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	s.logger.Debug("Iniciando registro de usuário.", map[string]interface{}{"email": registration.Email, "role": string(registration.Role)})

	if err := validateRegistration(&registration); err != nil {
		s.logger.Warn("Registro de usuário rejeitado.", map[string]interface{}{"email": registration.Email, "error": err.Error()})
		return domain.User{}, err
	}
	if registration.Role.IsPrivileged() {
		s.logger.Warn("Registro público com papel administrativo recusado.", map[string]interface{}{"email": registration.Email, "role": string(registration.Role)})
		return domain.User{}, apperror.NewForbiddenError("O papel " + string(registration.Role) + " só pode ser atribuído por um administrador.")
	}

	return s.save(ctx, registration)
}

// CreateUser cadastra um usuário em nome de um administrador autenticado.
// ClinicOwner cria usuários apenas no próprio tenant e nunca SystemAdmin;
// SystemAdmin escolhe o tenant (o próprio, se omitido).
func (s *UserService) CreateUser(ctx context.Context, actor token.Identity, registration domain.UserRegistration) (domain.User, error) {
	actorRole := domain.UserRole(actor.Role)
	switch actorRole {
	case domain.RoleSystemAdmin:
		if registration.TenantID == "" {
			registration.TenantID = actor.TenantID
		}
	case domain.RoleClinicOwner:
		registration.TenantID = actor.TenantID
	default:
		return domain.User{}, apperror.NewForbiddenError("Apenas administradores cadastram usuários.")
	}

	if err := validateRegistration(&registration); err != nil {
		s.logger.Warn("Cadastro de usuário rejeitado.", map[string]interface{}{"actor_id": actor.UserID, "error": err.Error()})
		return domain.User{}, err
	}
	if registration.Role == domain.RoleSystemAdmin && actorRole != domain.RoleSystemAdmin {
		s.logger.Warn("Tentativa de criar SystemAdmin sem privilégio.", map[string]interface{}{"actor_id": actor.UserID})
		return domain.User{}, apperror.NewForbiddenError("Apenas SystemAdmin cria outro SystemAdmin.")
	}

	return s.save(ctx, registration)
}

// save hasheia a senha e persiste um cadastro já validado.
func (s *UserService) save(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Falha ao gerar hash da senha.", err)
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	now := time.Now().UTC()
	newUser := domain.User{
		ID:                          uuid.NewString(),
		TenantID:                    registration.TenantID,
		ClinicID:                    registration.ClinicID,
		Name:                        registration.Name,
		Email:                       registration.Email,
		Phone:                       registration.Phone,
		PasswordHash:                string(hashedPassword),
		Role:                        registration.Role,
		ShowInAppointmentScheduling: registration.ShowInAppointmentScheduling,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}

	// Conflito de email já chega tipado do repositório.
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(user.Role), strconv.FormatBool(user.IsProfessional())).Inc()
	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": string(user.Role)})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira 401 para não revelar quais emails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Senha incorreta no login.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	identity := token.Identity{
		UserID:   user.ID,
		Role:     string(user.Role),
		TenantID: user.TenantID,
	}
	if user.ClinicID != nil {
		identity.ClinicID = *user.ClinicID
	}

	tokenString, err := s.TokenSvc.GenerateToken(identity)
	if err != nil {
		s.logger.Error("Falha ao gerar token.", err)
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID})
	return tokenString, nil
}

// ListProfessionals retorna os profissionais clínicos da clínica.
// Com schedulingOnly, apenas os visíveis na agenda.
func (s *UserService) ListProfessionals(ctx context.Context, clinicID string, schedulingOnly bool) ([]domain.User, error) {
	if _, err := uuid.Parse(clinicID); err != nil {
		return nil, apperror.NewValidationError("O ID da clínica deve ser um UUID válido.")
	}

	users, err := s.UserRepo.FindByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	professionals := make([]domain.User, 0, len(users))
	for _, u := range users {
		if !u.IsProfessional() {
			continue
		}
		if schedulingOnly && !u.ShowInAppointmentScheduling {
			continue
		}
		professionals = append(professionals, u)
	}

	s.logger.Debug("Profissionais listados.", map[string]interface{}{"clinic_id": clinicID, "count": len(professionals), "scheduling_only": schedulingOnly})
	return professionals, nil
}

func validateRegistration(reg *domain.UserRegistration) error {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Name = strings.TrimSpace(reg.Name)

	if reg.Email == "" || reg.Password == "" {
		return apperror.NewValidationError("Email e senha são obrigatórios.")
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return apperror.NewValidationError("Email em formato inválido.")
	}
	if len(reg.Password) < minPasswordLength {
		return apperror.NewValidationError("A senha deve ter pelo menos 8 caracteres.")
	}
	if reg.Name == "" {
		return apperror.NewValidationError("O nome é obrigatório.")
	}
	if _, err := uuid.Parse(reg.TenantID); err != nil {
		return apperror.NewValidationError("O tenant_id deve ser um UUID válido.")
	}
	if reg.ClinicID != nil {
		if _, err := uuid.Parse(*reg.ClinicID); err != nil {
			return apperror.NewValidationError("O clinic_id deve ser um UUID válido.")
		}
	}

	if reg.Role == "" {
		reg.Role = domain.RoleReceptionist
	}
	if !reg.Role.IsValid() {
		return apperror.NewInvalidArgumentError("role", "papel de usuário desconhecido: "+string(reg.Role))
	}
	return nil
}
