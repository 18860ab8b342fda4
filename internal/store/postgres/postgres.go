package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"invopos/backend/internal/domain"
	"invopos/backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	purchase_price NUMERIC(12,2) NOT NULL,
	sale_price NUMERIC(12,2) NOT NULL,
	expiry TEXT,
	status TEXT NOT NULL CHECK (status IN ('active','inactive')),
	image TEXT
)`

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.Validate(product); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, purchase_price, sale_price, expiry, status, image)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''))
	`, product.ID, product.Name, product.PurchasePrice.String(), product.SalePrice.String(),
		product.Expiry, product.Status, product.Image)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateID
		}
		if isCheckViolation(err) {
			return nil, store.ErrInvalidProduct
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, purchase_price, sale_price, COALESCE(expiry,''), status, COALESCE(image,'')
		FROM products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, purchase_price, sale_price, COALESCE(expiry,''), status, COALESCE(image,'')
		FROM products
		WHERE id = $1
	`, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.Validate(product); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2,
			purchase_price = $3,
			sale_price = $4,
			expiry = $5,
			status = $6,
			image = NULLIF($7,'')
		WHERE id = $1
	`, product.ID, product.Name, product.PurchasePrice.String(), product.SalePrice.String(),
		product.Expiry, product.Status, product.Image)
	if err != nil {
		if isCheckViolation(err) {
			return nil, store.ErrInvalidProduct
		}
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p             domain.Product
		purchasePrice string
		salePrice     string
	)
	err := row.Scan(&p.ID, &p.Name, &purchasePrice, &salePrice, &p.Expiry, &p.Status, &p.Image)
	if err != nil {
		return domain.Product{}, err
	}
	if p.PurchasePrice, err = decimal.NewFromString(purchasePrice); err != nil {
		return domain.Product{}, err
	}
	if p.SalePrice, err = decimal.NewFromString(salePrice); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
