package middleware

import (
	"context"
	"net/http"
	"strings"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/token"
)

// contextKey é um tipo não exportado para evitar colisões de chave no contexto.
type contextKey int

const (
	UserClaimsKey contextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID   string
	Role     domain.UserRole
	TenantID string
	ClinicID string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// ErrorWriter escreve um erro tipado na resposta (implementado por response.Writer).
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// NewAuthMiddleware valida o Bearer JWT e anexa as claims ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService, writeErr ErrorWriter) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				writeErr(w, r, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeErr(w, r, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			userClaims := UserClaims{
				UserID:   claims.UserID,
				Role:     domain.UserRole(claims.Role),
				TenantID: claims.TenantID,
				ClinicID: claims.ClinicID,
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware restringe o acesso aos papéis informados.
func PermissionMiddleware(writeErr ErrorWriter, requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[domain.UserRole]struct{}, len(requiredRoles))
	for _, role := range requiredRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeErr(w, r, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				writeErr(w, r, apperror.NewForbiddenError("Você não tem a permissão necessária."))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
