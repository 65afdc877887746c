package user

import (
	"context"
	"net/http"

	"goclinic/internal/api/request"
	"goclinic/internal/api/response"
	"goclinic/internal/domain"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/middleware"
	"goclinic/internal/pkg/token"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	CreateUser(ctx context.Context, actor token.Identity, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}

// UserResponse é o usuário exposto pela API, com a classificação clínica.
type UserResponse struct {
	domain.User
	IsProfessional bool `json:"is_professional"`
}

// TokenResponse carrega o JWT emitido no login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	resp    *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		resp:    response.NewWriter(log),
	}
}

// RegisterUserHandler lida com a requisição POST /v1/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados. Sem papel informado, o usuário é Receptionist. SystemAdmin e ClinicOwner são recusados.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body request.RegisterRequest true "Dados de registro"
// @Success 201 {object} UserResponse "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido (JSON malformado ou campos obrigatórios ausentes)"
// @Failure 403 {object} domain.ErrorResponse "Papel administrativo no registro público"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	newUser, err := h.Service.Register(r.Context(), req.ToDomain())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	// PasswordHash não é serializado (tag json:"-").
	h.resp.JSON(w, http.StatusCreated, UserResponse{User: newUser, IsProfessional: newUser.IsProfessional()})
}

// CreateUserHandler lida com a requisição POST /v1/users.
// @Summary Cadastra um usuário (administradores)
// @Description SystemAdmin cadastra qualquer papel em qualquer tenant; ClinicOwner cadastra no próprio tenant, exceto SystemAdmin.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user body request.CreateUserRequest true "Dados do usuário"
// @Success 201 {object} UserResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /users [post]
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserClaimsFromContext(r.Context())

	var req request.CreateUserRequest
	if err := request.Decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	actor := token.Identity{
		UserID:   claims.UserID,
		Role:     string(claims.Role),
		TenantID: claims.TenantID,
		ClinicID: claims.ClinicID,
	}
	newUser, err := h.Service.CreateUser(r.Context(), actor, req.ToDomain())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusCreated, UserResponse{User: newUser, IsProfessional: newUser.IsProfessional()})
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um JSON Web Token.
// @Tags users
// @Accept json
// @Produce json
// @Param login body request.LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} TokenResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq request.LoginRequest
	if err := request.Decode(r, &loginReq); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	token, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, TokenResponse{Token: token})
}
