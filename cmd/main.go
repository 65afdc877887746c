package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"goclinic/config"
	"goclinic/internal/api/clinic"
	"goclinic/internal/api/response"
	"goclinic/internal/api/router"
	"goclinic/internal/api/user"
	"goclinic/internal/pkg/cache"
	"goclinic/internal/pkg/database"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/metrics"
	"goclinic/internal/pkg/middleware"
	"goclinic/internal/pkg/token"
	"goclinic/internal/repository/clinicrepo"
	"goclinic/internal/repository/userrepo"
	"goclinic/internal/service/clinicservice"
	"goclinic/internal/service/userservice"
)

// @title GoClinic API
// @version 1.0
// @description API de gestão de clínicas multi-tenant com resolução por subdomínio.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	log.Println("⚡ Inicializando serviço GoClinic...")

	// Sem .env seguimos com as variáveis do ambiente (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	cacheClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao Redis.", err)
	}
	defer cacheClient.Close()
	appLog.Info("Conexão Redis estabelecida.", nil)

	// Repository -> Service -> Handler
	clinicRepo := clinicrepo.NewClinicRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	clinicSvc := clinicservice.NewService(clinicRepo, appLog)
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)

	clinicHandler := clinic.NewHandler(clinicSvc, userSvc, cfg.BaseDomain, appLog)
	userHandler := user.NewHandler(userSvc, appLog)
	appLog.Debug("Handlers inicializados.", nil)

	errWriter := response.NewWriter(appLog).Error
	r := router.NewRouter(clinicHandler, userHandler, router.Middlewares{
		Auth:      middleware.NewAuthMiddleware(tokenSvc, errWriter),
		ErrWriter: errWriter,
		RateLimit: middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, appLog),
		Metrics:   metrics.Middleware,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("Servidor GoClinic ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
