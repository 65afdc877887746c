package clinic

import (
	"context"
	"net/http"
	"strconv"

	"goclinic/internal/api/request"
	"goclinic/internal/api/response"
	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/middleware"
	"goclinic/internal/service/clinicservice"
)

// ClinicService define o contrato que o Handler espera da camada de Serviço.
type ClinicService interface {
	CreateClinic(ctx context.Context, clinic domain.Clinic, subdomain *string) (domain.Clinic, error)
	GetClinicByID(ctx context.Context, id string) (domain.Clinic, error)
	GetClinicBySubdomain(ctx context.Context, subdomain string) (domain.Clinic, error)
	ListClinics(ctx context.Context, tenantID string) ([]domain.Clinic, error)
	UpdateClinic(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error)
	UpdateSubdomain(ctx context.Context, id string, subdomain *string) (domain.Clinic, error)
	DeleteClinic(ctx context.Context, id string) error
}

// ProfessionalLister lista os profissionais vinculados a uma clínica.
type ProfessionalLister interface {
	ListProfessionals(ctx context.Context, clinicID string, schedulingOnly bool) ([]domain.User, error)
}

// ClinicResponse é a clínica acrescida do endereço público.
type ClinicResponse struct {
	domain.Clinic
	PublicURL string `json:"public_url,omitempty" example:"https://sorriso.goclinic.app"`
}

// Handler agrupa todos os métodos de Handler de clínicas.
type Handler struct {
	Service       ClinicService
	Professionals ProfessionalLister
	BaseDomain    string
	resp          *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando os Services e o Logger.
func NewHandler(svc ClinicService, professionals ProfessionalLister, baseDomain string, log logger.Logger) *Handler {
	return &Handler{
		Service:       svc,
		Professionals: professionals,
		BaseDomain:    baseDomain,
		resp:          response.NewWriter(log),
	}
}

func (h *Handler) toResponse(c domain.Clinic) ClinicResponse {
	return ClinicResponse{Clinic: c, PublicURL: clinicservice.PublicURL(c, h.BaseDomain)}
}

// authorizeClinic carrega a clínica e garante que ela pertence ao tenant do usuário.
// SystemAdmin acessa qualquer tenant.
func (h *Handler) authorizeClinic(r *http.Request, id string) (domain.Clinic, error) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		return domain.Clinic{}, apperror.NewUnauthorizedError("Autorização necessária.")
	}

	clinic, err := h.Service.GetClinicByID(r.Context(), id)
	if err != nil {
		return domain.Clinic{}, err
	}

	if claims.Role != domain.RoleSystemAdmin && clinic.TenantID != claims.TenantID {
		return domain.Clinic{}, apperror.NewForbiddenError("A clínica pertence a outro tenant.")
	}
	return clinic, nil
}

// CreateClinicHandler lida com a requisição POST /v1/clinics.
// @Summary Cria uma nova clínica
// @Description Cria uma clínica no tenant do usuário, com subdomínio opcional.
// @Tags clinics
// @Accept json
// @Produce json
// @Param clinic body request.ClinicRequest true "Dados da clínica"
// @Success 201 {object} ClinicResponse "Clínica criada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload ou subdomínio inválido"
// @Failure 403 {object} domain.ErrorResponse "Permissão insuficiente"
// @Failure 409 {object} domain.ErrorResponse "Subdomínio já em uso"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /clinics [post]
func (h *Handler) CreateClinicHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserClaimsFromContext(r.Context())

	var req request.ClinicRequest
	if err := request.Decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	clinic := req.ToDomain()
	// Apenas SystemAdmin escolhe o tenant; os demais criam no próprio.
	if claims.Role != domain.RoleSystemAdmin || clinic.TenantID == "" {
		clinic.TenantID = claims.TenantID
	}

	created, err := h.Service.CreateClinic(r.Context(), clinic, req.Subdomain)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusCreated, h.toResponse(created))
}

// ListClinicsHandler lida com a requisição GET /v1/clinics.
// @Summary Lista as clínicas do tenant
// @Tags clinics
// @Produce json
// @Param tenant_id query string false "Tenant (apenas SystemAdmin)"
// @Success 200 {array} ClinicResponse "Lista de clínicas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /clinics [get]
func (h *Handler) ListClinicsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserClaimsFromContext(r.Context())

	tenantID := claims.TenantID
	if q := r.URL.Query().Get("tenant_id"); q != "" && claims.Role == domain.RoleSystemAdmin {
		tenantID = q
	}

	clinics, err := h.Service.ListClinics(r.Context(), tenantID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	out := make([]ClinicResponse, 0, len(clinics))
	for _, c := range clinics {
		out = append(out, h.toResponse(c))
	}
	h.resp.JSON(w, http.StatusOK, out)
}

// GetClinicByIDHandler lida com a requisição GET /v1/clinics/{id}.
// @Summary Obtém uma clínica por ID
// @Tags clinics
// @Produce json
// @Param id path string true "ID da Clínica"
// @Success 200 {object} ClinicResponse "Clínica encontrada"
// @Failure 404 {object} domain.ErrorResponse "Clínica não encontrada"
// @Security ApiKeyAuth
// @Router /clinics/{id} [get]
func (h *Handler) GetClinicByIDHandler(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.authorizeClinic(r, r.PathValue("id"))
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, h.toResponse(clinic))
}

// GetClinicBySubdomainHandler lida com a requisição pública GET /v1/subdomains/{subdomain}.
// @Summary Resolve uma clínica pelo subdomínio
// @Description Rota pública usada pelo front-end para identificar a clínica a partir do host.
// @Tags clinics
// @Produce json
// @Param subdomain path string true "Subdomínio"
// @Success 200 {object} ClinicResponse "Clínica encontrada"
// @Failure 400 {object} domain.ErrorResponse "Subdomínio em formato inválido"
// @Failure 404 {object} domain.ErrorResponse "Nenhuma clínica com o subdomínio"
// @Router /subdomains/{subdomain} [get]
func (h *Handler) GetClinicBySubdomainHandler(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.Service.GetClinicBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, h.toResponse(clinic))
}

// UpdateClinicHandler lida com a requisição PUT /v1/clinics/{id}.
// @Summary Atualiza os dados cadastrais da clínica
// @Description O subdomínio é ignorado; use PUT /clinics/{id}/subdomain.
// @Tags clinics
// @Accept json
// @Produce json
// @Param id path string true "ID da Clínica"
// @Param clinic body request.ClinicRequest true "Dados da clínica"
// @Success 200 {object} ClinicResponse "Clínica atualizada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Clínica não encontrada"
// @Security ApiKeyAuth
// @Router /clinics/{id} [put]
func (h *Handler) UpdateClinicHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req request.ClinicRequest
	if err := request.Decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.authorizeClinic(r, id); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	clinic := req.ToDomain()
	clinic.ID = id

	updated, err := h.Service.UpdateClinic(r.Context(), clinic)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, h.toResponse(updated))
}

// UpdateSubdomainHandler lida com a requisição PUT /v1/clinics/{id}/subdomain.
// @Summary Define ou remove o subdomínio da clínica
// @Description null ou string vazia removem o subdomínio.
// @Tags clinics
// @Accept json
// @Produce json
// @Param id path string true "ID da Clínica"
// @Param subdomain body request.SubdomainRequest true "Novo subdomínio"
// @Success 200 {object} ClinicResponse "Subdomínio atualizado"
// @Failure 400 {object} domain.ErrorResponse "Subdomínio inválido"
// @Failure 409 {object} domain.ErrorResponse "Subdomínio já em uso"
// @Security ApiKeyAuth
// @Router /clinics/{id}/subdomain [put]
func (h *Handler) UpdateSubdomainHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req request.SubdomainRequest
	if err := request.Decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.authorizeClinic(r, id); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	updated, err := h.Service.UpdateSubdomain(r.Context(), id, req.Subdomain)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, h.toResponse(updated))
}

// DeleteClinicHandler lida com a requisição DELETE /v1/clinics/{id}.
// @Summary Remove uma clínica
// @Tags clinics
// @Param id path string true "ID da Clínica"
// @Success 204 "Clínica removida"
// @Failure 404 {object} domain.ErrorResponse "Clínica não encontrada"
// @Security ApiKeyAuth
// @Router /clinics/{id} [delete]
func (h *Handler) DeleteClinicHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.authorizeClinic(r, id); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.Service.DeleteClinic(r.Context(), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusNoContent, nil)
}

// ListProfessionalsHandler lida com a requisição GET /v1/clinics/{id}/professionals.
// @Summary Lista os profissionais clínicos da clínica
// @Tags clinics
// @Produce json
// @Param id path string true "ID da Clínica"
// @Param scheduling query bool false "Apenas visíveis na agenda"
// @Success 200 {array} domain.User "Profissionais"
// @Failure 404 {object} domain.ErrorResponse "Clínica não encontrada"
// @Security ApiKeyAuth
// @Router /clinics/{id}/professionals [get]
func (h *Handler) ListProfessionalsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	schedulingOnly := false
	if raw := r.URL.Query().Get("scheduling"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.resp.Error(w, r, apperror.NewValidationError("O parâmetro 'scheduling' deve ser booleano."))
			return
		}
		schedulingOnly = v
	}

	if _, err := h.authorizeClinic(r, id); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	users, err := h.Professionals.ListProfessionals(r.Context(), id, schedulingOnly)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, users)
}
