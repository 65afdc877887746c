package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config armazena todas as configurações do aplicativo GoClinic.
type Config struct {
	// Geral
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	BaseDomain  string `env:"BASE_DOMAIN" envDefault:"goclinic.app"` // usado para montar https://<subdominio>.<base>

	// Banco de Dados (PostgreSQL)
	DatabaseURL string        `env:"DATABASE_URL,required,notEmpty"`
	DBTimeout   time.Duration `env:"DB_TIMEOUT" envDefault:"5s"`

	// Cache (Redis)
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Segurança (JWT)
	JWTSecretKey string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	TokenExpiry  time.Duration `env:"JWT_EXPIRY" envDefault:"1h"`

	// Rate Limiting
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitPeriod      time.Duration `env:"RATE_LIMIT_PERIOD" envDefault:"1m"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Retorna erro se alguma variável obrigatória estiver ausente ou malformada.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	if cfg.RateLimitMaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS deve ser positivo, recebido %d", cfg.RateLimitMaxRequests)
	}
	return cfg, nil
}
