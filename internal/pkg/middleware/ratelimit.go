package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"goclinic/internal/pkg/cache"
	"goclinic/internal/pkg/logger"
)

// localLimiters é o fallback em memória usado enquanto o Redis está indisponível.
// O limite passa a valer por instância, não globalmente.
type localLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLocalLimiters(limit int, window time.Duration) *localLimiters {
	return &localLimiters{
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *localLimiters) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimiter aplica uma janela fixa de requisições por IP usando o cache.
// Se o cache falhar, cai para um token bucket local.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	fallback := newLocalLimiters(limit, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip
			ctx := r.Context()

			reject := func() {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			}

			count, err := client.IncrWindow(ctx, key, window)
			if err != nil {
				log.Warn("Cache indisponível para rate limit; usando limitador local.", map[string]interface{}{"ip": ip, "error": err.Error()})
				if !fallback.allow(ip) {
					reject()
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				reject()
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
