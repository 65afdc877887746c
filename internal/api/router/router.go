package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "goclinic/docs"
	"goclinic/internal/api/clinic"
	"goclinic/internal/api/user"
	"goclinic/internal/domain"
	"goclinic/internal/pkg/middleware"
)

// Middlewares agrupa os middlewares já configurados pelo main.
type Middlewares struct {
	Auth      func(http.HandlerFunc) http.HandlerFunc
	ErrWriter middleware.ErrorWriter
	RateLimit func(http.Handler) http.Handler
	Metrics   func(http.Handler) http.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(clinicHandler *clinic.Handler, userHandler *user.Handler, mw Middlewares) http.Handler {
	mux := http.NewServeMux()

	// Mutações de clínica e cadastro de usuários exigem SystemAdmin ou ClinicOwner.
	clinicAdmin := middleware.PermissionMiddleware(mw.ErrWriter, domain.RoleSystemAdmin, domain.RoleClinicOwner)
	authed := mw.Auth
	admin := func(h http.HandlerFunc) http.HandlerFunc { return mw.Auth(clinicAdmin(h)) }

	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.HandleFunc("POST /v1/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("POST /v1/login", userHandler.LoginUserHandler)
	mux.HandleFunc("POST /v1/users", admin(userHandler.CreateUserHandler))

	mux.HandleFunc("GET /v1/subdomains/{subdomain}", clinicHandler.GetClinicBySubdomainHandler)

	mux.HandleFunc("POST /v1/clinics", admin(clinicHandler.CreateClinicHandler))
	mux.HandleFunc("GET /v1/clinics", authed(clinicHandler.ListClinicsHandler))
	mux.HandleFunc("GET /v1/clinics/{id}", authed(clinicHandler.GetClinicByIDHandler))
	mux.HandleFunc("PUT /v1/clinics/{id}", admin(clinicHandler.UpdateClinicHandler))
	mux.HandleFunc("DELETE /v1/clinics/{id}", admin(clinicHandler.DeleteClinicHandler))
	mux.HandleFunc("PUT /v1/clinics/{id}/subdomain", admin(clinicHandler.UpdateSubdomainHandler))
	mux.HandleFunc("GET /v1/clinics/{id}/professionals", authed(clinicHandler.ListProfessionalsHandler))

	var handler http.Handler = mux
	if mw.RateLimit != nil {
		handler = mw.RateLimit(handler)
	}
	if mw.Metrics != nil {
		handler = mw.Metrics(handler)
	}
	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
