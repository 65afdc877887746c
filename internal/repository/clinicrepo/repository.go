package clinicrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/cache"
	"goclinic/internal/pkg/database"
	"goclinic/internal/pkg/logger"
)

// subdomainCacheKey guarda o ID da clínica resolvido pelo subdomínio.
const subdomainCacheKey = "clinic:subdomain:%s"

const subdomainConstraint = "clinics_subdomain_key"

const clinicColumns = `id, tenant_id, name, trade_name, document, phone, email, address,
	opening_hours, default_appointment_duration, subdomain, created_at, updated_at`

// ClinicRepository implementa a interface domain.ClinicRepository sobre PostgreSQL,
// com cache-aside no Redis para a resolução por subdomínio.
type ClinicRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewClinicRepository cria e retorna uma nova instância do Repositório de Clínicas.
func NewClinicRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ClinicRepository {
	return &ClinicRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClinic(row rowScanner) (domain.Clinic, error) {
	var c domain.Clinic
	var subdomain sql.NullString
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.TradeName, &c.Document, &c.Phone, &c.Email, &c.Address,
		&c.OpeningHours, &c.DefaultAppointmentDuration, &subdomain, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Clinic{}, err
	}
	if subdomain.Valid {
		c.Subdomain = &subdomain.String
	}
	return c, nil
}

func nullableSubdomain(c domain.Clinic) sql.NullString {
	if c.Subdomain == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *c.Subdomain, Valid: true}
}

// translateWriteError converte erros de escrita do driver em erros de domínio.
func (r *ClinicRepository) translateWriteError(op string, c domain.Clinic, err error) error {
	if database.IsUniqueViolation(err, subdomainConstraint) {
		r.logger.Warn("Subdomínio já utilizado por outra clínica.", map[string]interface{}{"subdomain": c.SubdomainValue()})
		return apperror.NewConflictError(fmt.Sprintf("O subdomínio '%s' já está em uso.", c.SubdomainValue()))
	}
	r.logger.Error(fmt.Sprintf("Falha ao %s clínica no DB.", op), err)
	return apperror.NewDBError(fmt.Sprintf("Falha ao %s clínica", op), err)
}

// Create insere uma nova clínica no banco de dados.
func (r *ClinicRepository) Create(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error) {
	r.logger.Debug("Iniciando Create de clínica no repositório.", map[string]interface{}{"name": clinic.Name, "tenant_id": clinic.TenantID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO clinics (id, tenant_id, name, trade_name, document, phone, email, address,
            opening_hours, default_appointment_duration, subdomain, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING ` + clinicColumns

	created, err := scanClinic(r.DB.QueryRowContext(ctxTimeout, query,
		clinic.ID, clinic.TenantID, clinic.Name, clinic.TradeName, clinic.Document, clinic.Phone,
		clinic.Email, clinic.Address, clinic.OpeningHours, clinic.DefaultAppointmentDuration,
		nullableSubdomain(clinic), clinic.CreatedAt, clinic.UpdatedAt,
	))
	if err != nil {
		return domain.Clinic{}, r.translateWriteError("criar", clinic, err)
	}

	r.logger.Info("Clínica criada com sucesso.", map[string]interface{}{"id": created.ID, "subdomain": created.SubdomainValue()})
	return created, nil
}

// FindByID busca uma clínica pelo ID.
func (r *ClinicRepository) FindByID(ctx context.Context, id string) (domain.Clinic, error) {
	r.logger.Debug("Iniciando FindByID de clínica no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`

	clinic, err := scanClinic(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Clínica não encontrada.", map[string]interface{}{"id": id})
		return domain.Clinic{}, apperror.NewNotFoundError(fmt.Sprintf("Clínica com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar clínica no DB.", err)
		return domain.Clinic{}, apperror.NewDBError("Falha ao buscar clínica", err)
	}

	return clinic, nil
}

// FindBySubdomain resolve uma clínica pelo subdomínio, utilizando a estratégia Cache-Aside
// (subdomínio -> ID no Redis, entidade sempre lida do DB).
func (r *ClinicRepository) FindBySubdomain(ctx context.Context, subdomain string) (domain.Clinic, error) {
	r.logger.Debug("Iniciando FindBySubdomain no repositório.", map[string]interface{}{"subdomain": subdomain})

	key := fmt.Sprintf(subdomainCacheKey, subdomain)

	cachedID, err := r.Cache.Get(ctx, key)
	if err == nil {
		clinic, findErr := r.FindByID(ctx, cachedID)
		if findErr == nil && clinic.SubdomainValue() == subdomain {
			return clinic, nil
		}
		// Entrada obsoleta: remove e cai para a consulta por subdomínio.
		_ = r.Cache.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE subdomain = $1`

	clinic, err := scanClinic(r.DB.QueryRowContext(ctxTimeout, query, subdomain))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Clinic{}, apperror.NewNotFoundError(fmt.Sprintf("Nenhuma clínica com subdomínio '%s'.", subdomain))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar clínica por subdomínio no DB.", err)
		return domain.Clinic{}, apperror.NewDBError("Falha ao buscar clínica por subdomínio", err)
	}

	if err := r.Cache.Set(ctx, key, clinic.ID, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar subdomínio no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return clinic, nil
}

// FindAllByTenant lista as clínicas de um tenant ordenadas por nome.
func (r *ClinicRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]domain.Clinic, error) {
	r.logger.Debug("Iniciando FindAllByTenant no repositório.", map[string]interface{}{"tenant_id": tenantID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE tenant_id = $1 ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, tenantID)
	if err != nil {
		r.logger.Error("Falha ao executar FindAllByTenant query.", err)
		return nil, apperror.NewDBError("Falha ao listar clínicas", err)
	}
	defer rows.Close()

	clinics := []domain.Clinic{}
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear clínica na iteração.", err)
			return nil, apperror.NewDBError("Falha ao mapear clínicas do DB", err)
		}
		clinics = append(clinics, clinic)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de clínicas.", err)
		return nil, apperror.NewDBError("Erro após iteração de clínicas", err)
	}

	r.logger.Info("FindAllByTenant concluído com sucesso.", map[string]interface{}{"tenant_id": tenantID, "total": len(clinics)})
	return clinics, nil
}

// Update grava todos os campos mutáveis da clínica, incluindo o subdomínio.
func (r *ClinicRepository) Update(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error) {
	r.logger.Debug("Iniciando Update de clínica no repositório.", map[string]interface{}{"id": clinic.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de atualização de clínica.", err)
		return domain.Clinic{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// Subdomínio anterior, para invalidar o cache após o commit.
	var previous sql.NullString
	err = tx.QueryRowContext(ctxTimeout, `SELECT subdomain FROM clinics WHERE id = $1 FOR UPDATE`, clinic.ID).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Clinic{}, apperror.NewNotFoundError(fmt.Sprintf("Clínica com ID %s não encontrada para atualização.", clinic.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao bloquear clínica para atualização.", err)
		return domain.Clinic{}, apperror.NewDBError("Falha ao buscar clínica para atualização", err)
	}

	query := `
        UPDATE clinics
        SET name = $1, trade_name = $2, document = $3, phone = $4, email = $5, address = $6,
            opening_hours = $7, default_appointment_duration = $8, subdomain = $9, updated_at = $10
        WHERE id = $11
        RETURNING ` + clinicColumns

	updated, err := scanClinic(tx.QueryRowContext(ctxTimeout, query,
		clinic.Name, clinic.TradeName, clinic.Document, clinic.Phone, clinic.Email, clinic.Address,
		clinic.OpeningHours, clinic.DefaultAppointmentDuration, nullableSubdomain(clinic), clinic.UpdatedAt,
		clinic.ID,
	))
	if err != nil {
		return domain.Clinic{}, r.translateWriteError("atualizar", clinic, err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar atualização de clínica.", err)
		return domain.Clinic{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	if previous.Valid && previous.String != updated.SubdomainValue() {
		r.evict(ctx, previous.String)
	}

	r.logger.Info("Clínica atualizada com sucesso.", map[string]interface{}{"id": updated.ID, "subdomain": updated.SubdomainValue()})
	return updated, nil
}

// Delete remove uma clínica pelo ID.
func (r *ClinicRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de clínica no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var subdomain sql.NullString
	err := r.DB.QueryRowContext(ctxTimeout, `DELETE FROM clinics WHERE id = $1 RETURNING subdomain`, id).Scan(&subdomain)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Clínica não encontrada para exclusão.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Clínica com ID %s não encontrada para exclusão.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao deletar clínica do DB.", err)
		return apperror.NewDBError("Falha ao deletar clínica", err)
	}

	if subdomain.Valid {
		r.evict(ctx, subdomain.String)
	}

	r.logger.Info("Clínica deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func (r *ClinicRepository) evict(ctx context.Context, subdomain string) {
	key := fmt.Sprintf(subdomainCacheKey, subdomain)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache de subdomínio.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
