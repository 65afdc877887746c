package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/middleware"
	"goclinic/internal/pkg/token"
	"goclinic/internal/testutil"
)

// MockTokenService é uma implementação mock da interface TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.CustomClaims)
	return claims, args.Error(1)
}

// writeStatus escreve apenas o status HTTP do erro tipado.
func writeStatus(w http.ResponseWriter, r *http.Request, err error) {
	status, _, _ := apperror.MapToHTTPStatus(err)
	w.WriteHeader(status)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokenSvc := new(MockTokenService)
	h := middleware.NewAuthMiddleware(tokenSvc, writeStatus)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/clinics", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tokenSvc.AssertNotCalled(t, "ValidateToken", mock.Anything)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokenSvc := new(MockTokenService)
	tokenSvc.On("ValidateToken", "ruim").Return(nil, errors.New("expired"))
	h := middleware.NewAuthMiddleware(tokenSvc, writeStatus)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/clinics", nil)
	req.Header.Set("Authorization", "Bearer ruim")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tokenSvc.AssertExpectations(t)
}

func TestAuthMiddleware_AttachesClaims(t *testing.T) {
	tokenSvc := new(MockTokenService)
	tokenSvc.On("ValidateToken", "bom").Return(&token.CustomClaims{UserID: "u-1", Role: "ClinicOwner", TenantID: "t-1"}, nil)

	var got middleware.UserClaims
	h := middleware.NewAuthMiddleware(tokenSvc, writeStatus)(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.GetUserClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/clinics", nil)
	req.Header.Set("Authorization", "Bearer bom")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, domain.RoleClinicOwner, got.Role)
	assert.Equal(t, "t-1", got.TenantID)
}

func TestPermissionMiddleware(t *testing.T) {
	perm := middleware.PermissionMiddleware(writeStatus, domain.RoleSystemAdmin, domain.RoleClinicOwner)
	h := perm(okHandler)

	cases := []struct {
		name   string
		claims *middleware.UserClaims
		want   int
	}{
		{"sem claims", nil, http.StatusUnauthorized},
		{"papel permitido", &middleware.UserClaims{Role: domain.RoleClinicOwner}, http.StatusOK},
		{"papel negado", &middleware.UserClaims{Role: domain.RoleDoctor}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/clinics", nil)
			if tc.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), middleware.UserClaimsKey, *tc.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	h := middleware.RateLimiter(testutil.NewMemoryCache(), 2, time.Minute, logger.NewNop())(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_WindowExpiresAndCounterResets(t *testing.T) {
	c := testutil.NewMemoryCache()
	h := middleware.RateLimiter(c, 2, time.Minute, logger.NewNop())(http.HandlerFunc(okHandler))

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.3:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do())
	// O contador nasce já com o TTL da janela.
	ttl := c.TTL("rate-limit:10.0.0.3")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	// A chave vence no meio da sequência; a próxima requisição abre nova janela com TTL.
	c.Advance(time.Minute)
	assert.Equal(t, http.StatusOK, do())
	assert.Greater(t, c.TTL("rate-limit:10.0.0.3"), time.Duration(0))
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())

	// Bloqueio não é permanente: expirada a janela, o IP volta a passar.
	c.Advance(time.Minute)
	assert.Equal(t, http.StatusOK, do())
}

func TestRateLimiter_RemainingHeader(t *testing.T) {
	h := middleware.RateLimiter(testutil.NewMemoryCache(), 3, time.Minute, logger.NewNop())(http.HandlerFunc(okHandler))

	want := []string{"2", "1", "0"}
	for _, w := range want {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.4:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, w, rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimiter_CacheFailureFallsBackToLocalLimiter(t *testing.T) {
	c := testutil.NewMemoryCache()
	c.Fail = true
	h := middleware.RateLimiter(c, 1, time.Minute, logger.NewNop())(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.2:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGetUserClaimsFromContext_IgnoresForeignKeys(t *testing.T) {
	// Uma chave int de outro pacote com o mesmo valor não colide com a do middleware.
	ctx := context.WithValue(context.Background(), 0, middleware.UserClaims{UserID: "intruso", Role: domain.RoleSystemAdmin})

	_, ok := middleware.GetUserClaimsFromContext(ctx)

	assert.False(t, ok)
}
