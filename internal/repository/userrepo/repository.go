package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/database"
	"goclinic/internal/pkg/logger"
)

const emailConstraint = "users_email_key"

const userColumns = `id, tenant_id, clinic_id, name, email, phone, password_hash, role,
	show_in_appointment_scheduling, created_at, updated_at`

// UserRepository implementa a interface domain.UserRepository
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var clinicID sql.NullString
	err := row.Scan(
		&u.ID, &u.TenantID, &clinicID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.ShowInAppointmentScheduling, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if clinicID.Valid {
		u.ClinicID = &clinicID.String
	}
	return u, nil
}

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt

	var clinicID sql.NullString
	if user.ClinicID != nil {
		clinicID = sql.NullString{String: *user.ClinicID, Valid: true}
	}

	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		user.ID, user.TenantID, clinicID, user.Name, user.Email, user.Phone, user.PasswordHash,
		user.Role, user.ShowInAppointmentScheduling, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			r.logger.Warn("Email já cadastrado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao inserir usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "role": string(user.Role)})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Usuário não encontrado no DB por email.", map[string]interface{}{"email": email})
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário por email", err)
	}

	return user, nil
}

// FindByClinic lista os usuários vinculados a uma clínica, ordenados por nome.
func (r *UserRepository) FindByClinic(ctx context.Context, clinicID string) ([]domain.User, error) {
	r.logger.Debug("Iniciando FindByClinic no repositório.", map[string]interface{}{"clinic_id": clinicID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE clinic_id = $1 ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, clinicID)
	if err != nil {
		r.logger.Error("Falha ao executar FindByClinic query.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários da clínica", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear usuário na iteração.", err)
			return nil, apperror.NewDBError("Falha ao mapear usuários do DB", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de usuários.", err)
		return nil, apperror.NewDBError("Erro após iteração de usuários", err)
	}

	return users, nil
}
