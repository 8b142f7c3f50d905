package account

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-accounts/pkg/errors"
)

const uniqueViolationCode = "23505"

const accountColumns = `id, username, email, full_name, password_hash,
	is_verified, verification_token, refresh_token, password_reset_token,
	is_deleted, created_at, updated_at`

// PostgresRepository implements Repository backed by PostgreSQL. Partial
// unique indexes on username and email (among non-deleted rows) enforce the
// strict uniqueness guarantee.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new account repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.FullName,
		&a.PasswordHash,
		&a.IsVerified,
		&a.VerificationToken,
		&a.RefreshToken,
		&a.PasswordResetToken,
		&a.IsDeleted,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func mapDBError(err error, identifier string) error {
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound("account", identifier)
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return errors.Conflict("username or email is already taken")
	}
	return errors.Unexpected(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 AND is_deleted = false`, accountColumns)
	a, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return Account{}, mapDBError(err, id.String())
	}
	return a, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE username = $1 AND is_deleted = false`, accountColumns)
	a, err := scanAccount(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return Account{}, mapDBError(err, username)
	}
	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1 AND is_deleted = false`, accountColumns)
	a, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return Account{}, mapDBError(err, email)
	}
	return a, nil
}

func (r *PostgresRepository) GetByVerificationToken(ctx context.Context, token string) (Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE verification_token = $1 AND is_deleted = false`, accountColumns)
	a, err := scanAccount(r.db.QueryRow(ctx, query, token))
	if err != nil {
		return Account{}, mapDBError(err, "verification token")
	}
	return a, nil
}

func (r *PostgresRepository) GetByPasswordResetToken(ctx context.Context, token string) (Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE password_reset_token = $1 AND is_deleted = false`, accountColumns)
	a, err := scanAccount(r.db.QueryRow(ctx, query, token))
	if err != nil {
		return Account{}, mapDBError(err, "password reset token")
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE is_deleted = false ORDER BY created_at`, accountColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.Unexpected(err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errors.Unexpected(err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unexpected(err)
	}
	return accounts, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account Account) (Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO accounts (id, username, email, full_name, password_hash,
			is_verified, verification_token, refresh_token, password_reset_token, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, accountColumns)

	a, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.FullName,
		account.PasswordHash,
		account.IsVerified,
		account.VerificationToken,
		account.RefreshToken,
		account.PasswordResetToken,
		account.IsDeleted,
	))
	if err != nil {
		return Account{}, mapDBError(err, account.Username)
	}
	return a, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, params ProfileParams) (Account, error) {
	query := fmt.Sprintf(`
		UPDATE accounts
		SET username = COALESCE($2, username),
			email = COALESCE($3, email),
			full_name = COALESCE($4, full_name),
			updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING %s`, accountColumns)

	a, err := scanAccount(r.db.QueryRow(ctx, query, id, params.Username, params.Email, params.FullName))
	if err != nil {
		return Account{}, mapDBError(err, id.String())
	}
	return a, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, id uuid.UUID, username, email, fullName string) (Account, error) {
	query := fmt.Sprintf(`
		UPDATE accounts
		SET username = $2, email = $3, full_name = $4, updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING %s`, accountColumns)

	a, err := scanAccount(r.db.QueryRow(ctx, query, id, username, email, fullName))
	if err != nil {
		return Account{}, mapDBError(err, id.String())
	}
	return a, nil
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.exec(ctx, id, `
		UPDATE accounts SET refresh_token = $2, updated_at = now()
		WHERE id = $1 AND is_deleted = false`, token)
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, id, `
		UPDATE accounts SET is_verified = true, verification_token = NULL, updated_at = now()
		WHERE id = $1 AND is_deleted = false`)
}

func (r *PostgresRepository) SetPasswordResetToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.exec(ctx, id, `
		UPDATE accounts SET password_reset_token = $2, updated_at = now()
		WHERE id = $1 AND is_deleted = false`, token)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, id, `
		UPDATE accounts SET password_hash = $2, password_reset_token = NULL, updated_at = now()
		WHERE id = $1 AND is_deleted = false`, passwordHash)
}

func (r *PostgresRepository) Disable(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, id, `
		UPDATE accounts SET is_deleted = true, refresh_token = NULL, updated_at = now()
		WHERE id = $1 AND is_deleted = false`)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return errors.Unexpected(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("account", id.String())
	}
	return nil
}

// exec runs a single-row update and maps "no rows touched" to NotFound
func (r *PostgresRepository) exec(ctx context.Context, id uuid.UUID, query string, args ...interface{}) error {
	queryArgs := append([]interface{}{id}, args...)
	tag, err := r.db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return mapDBError(err, id.String())
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("account", id.String())
	}
	return nil
}
