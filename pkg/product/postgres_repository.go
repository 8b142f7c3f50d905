package product

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-accounts/pkg/errors"
)

const uniqueViolationCode = "23505"

const productColumns = `id, code, name, category, brand,
	unit_presentation, quantity_presentation, price, supplier_name,
	is_deleted, created_at, updated_at`

// PostgresRepository implements Repository backed by PostgreSQL. A partial
// unique index on code (among non-deleted rows) enforces code uniqueness.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new product repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Category,
		&p.Brand,
		&p.UnitPresentation,
		&p.QuantityPresentation,
		&p.Price,
		&p.SupplierName,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func mapDBError(err error, identifier string) error {
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound("product", identifier)
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return errors.Conflict("product code is already taken")
	}
	return errors.Unexpected(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_deleted = false`, productColumns)
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return Product{}, mapDBError(err, id.String())
	}
	return p, nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code int) (Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE code = $1 AND is_deleted = false`, productColumns)
	p, err := scanProduct(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return Product{}, mapDBError(err, strconv.Itoa(code))
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_deleted = false ORDER BY code`, productColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.Unexpected(err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Unexpected(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unexpected(err)
	}
	return products, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product Product) (Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO products (id, code, name, category, brand,
			unit_presentation, quantity_presentation, price, supplier_name, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query,
		product.ID,
		product.Code,
		product.Name,
		product.Category,
		product.Brand,
		product.UnitPresentation,
		product.QuantityPresentation,
		product.Price,
		product.SupplierName,
		product.IsDeleted,
	))
	if err != nil {
		return Product{}, mapDBError(err, strconv.Itoa(product.Code))
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET name = COALESCE($2, name),
			category = COALESCE($3, category),
			brand = COALESCE($4, brand),
			unit_presentation = COALESCE($5, unit_presentation),
			quantity_presentation = COALESCE($6, quantity_presentation),
			price = COALESCE($7, price),
			supplier_name = COALESCE($8, supplier_name),
			updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING %s`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, id,
		params.Name,
		params.Category,
		params.Brand,
		params.UnitPresentation,
		params.QuantityPresentation,
		params.Price,
		params.SupplierName,
	))
	if err != nil {
		return Product{}, mapDBError(err, id.String())
	}
	return p, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, id uuid.UUID, product Product) (Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET code = $2, name = $3, category = $4, brand = $5,
			unit_presentation = $6, quantity_presentation = $7,
			price = $8, supplier_name = $9, updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING %s`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, id,
		product.Code,
		product.Name,
		product.Category,
		product.Brand,
		product.UnitPresentation,
		product.QuantityPresentation,
		product.Price,
		product.SupplierName,
	))
	if err != nil {
		return Product{}, mapDBError(err, id.String())
	}
	return p, nil
}

func (r *PostgresRepository) Disable(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		return errors.Unexpected(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", id.String())
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Unexpected(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", id.String())
	}
	return nil
}
