package product

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// Repository persists products.
type Repository interface {
	List(ctx context.Context, query ListQuery) ([]Product, int, error)
	ListWithRatings(ctx context.Context) ([]RatedProduct, error)
	Get(ctx context.Context, id int64) (Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id int64) (Product, error)
	SetImage(ctx context.Context, id int64, imageURL, publicID string) error
}

type repository struct {
	db         *pgxpool.Pool
	categories singleflight.Group
}

// NewRepository constructs the pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Product, int, error) {
	countSQL, countArgs := query.CountSQL()
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectSQL, selectArgs := query.SelectSQL()
	rows, err := r.db.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) ListWithRatings(ctx context.Context) ([]RatedProduct, error) {
	const query = `
		SELECT p.id, p.name, p.mark, p.category, p.description, p.price, p.stock,
		       COALESCE(p.image_url, ''), COALESCE(p.public_id, ''),
		       COALESCE(AVG(r.rating), 0), COUNT(r.id)
		FROM products p
		LEFT JOIN reviews r ON r.product_id = p.id
		GROUP BY p.id
		ORDER BY p.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []RatedProduct{}
	for rows.Next() {
		var p RatedProduct
		err := rows.Scan(&p.ID, &p.Name, &p.Mark, &p.Category, &p.Description, &p.Price, &p.Stock,
			&p.ImageURL, &p.PublicID, &p.AverageRating, &p.ReviewCount)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p Product
	err := scanProduct(r.db.QueryRow(ctx, query, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	return p, err
}

// Categories runs the distinct query once for all concurrent callers.
func (r *repository) Categories(ctx context.Context) ([]string, error) {
	resultChan := r.categories.DoChan("categories", func() (any, error) {
		const query = `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`
		rows, err := r.db.Query(context.WithoutCancel(ctx), query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		categories := []string{}
		for rows.Next() {
			var c string
			if err := rows.Scan(&c); err != nil {
				return nil, err
			}
			categories = append(categories, c)
		}
		return categories, rows.Err()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]string), nil
	}
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	const query = `
		INSERT INTO products (name, mark, category, description, price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id`
	err := r.db.QueryRow(ctx, query, p.Name, p.Mark, p.Category, p.Description, p.Price, p.Stock, p.ImageURL).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	sets := []string{}
	args := []any{}
	argCount := 0

	set := func(column string, value any) {
		argCount++
		sets = append(sets, column+" = $"+strconv.Itoa(argCount))
		args = append(args, value)
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Mark != nil {
		set("mark", *req.Mark)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Price != nil {
		set("price", *req.Price)
	}
	if req.Stock != nil {
		set("stock", *req.Stock)
	}
	if req.ImageURL != nil {
		set("image_url", *req.ImageURL)
	}

	argCount++
	query := `UPDATE products SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(argCount) +
		` RETURNING ` + productColumns
	args = append(args, id)

	var p Product
	err := scanProduct(r.db.QueryRow(ctx, query, args...), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) Delete(ctx context.Context, id int64) (Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	var p Product
	err := scanProduct(r.db.QueryRow(ctx, query, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) SetImage(ctx context.Context, id int64, imageURL, publicID string) error {
	const query = `UPDATE products SET image_url = $1, public_id = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, imageURL, publicID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Mark, &p.Category, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.PublicID)
}
