package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// PostgreSQL error code for foreign key violations.
const pgForeignKeyViolation = "23503"

// Repository persists reviews.
type Repository interface {
	ListByProduct(ctx context.Context, productID int64) ([]Review, error)
	Create(ctx context.Context, rev Review) (Review, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]Review, error) {
	const query = `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *repository) Create(ctx context.Context, rev Review) (Review, error) {
	const query = `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, rev.ProductID, rev.UserID, rev.Rating, rev.Comment).Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		// A broken product FK means the reviewed product does not exist.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Review{}, httpx.ErrNotFound
		}
		return Review{}, err
	}
	return rev, nil
}
