package product

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// SortField is a column permitted for dynamic ORDER BY selection. Only values
// from this fixed enumeration are ever interpolated into query text; raw input
// never is.
type SortField string

// Sortable columns.
const (
	SortID    SortField = "id"
	SortName  SortField = "name"
	SortPrice SortField = "price"
	SortStock SortField = "stock"
)

// SortDir is a normalized sort direction.
type SortDir string

// Sort directions.
const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListQuery is the parsed, validated form of the listing query parameters.
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	Sort     SortField
	Dir      SortDir
}

// ParseListQuery builds a ListQuery from untrusted query parameters.
// Absent, non-numeric, or non-positive page and limit values clamp to the
// defaults (1 and 10). An unknown sortBy is rejected rather than defaulted so
// it can never reach the SQL text; any order other than desc normalizes to
// ascending.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{
		Page:     defaultPage,
		Limit:    defaultLimit,
		Category: values.Get("category"),
		Sort:     SortID,
		Dir:      SortAsc,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}

	switch sortBy := values.Get("sortBy"); sortBy {
	case "":
	case string(SortID), string(SortName), string(SortPrice), string(SortStock):
		q.Sort = SortField(sortBy)
	default:
		return ListQuery{}, fmt.Errorf("%w: sortBy must be one of id, name, price, stock", httpx.ErrValidation)
	}

	if strings.EqualFold(values.Get("order"), "desc") {
		q.Dir = SortDesc
	}

	return q, nil
}

// Offset is the row offset for the data statement.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

const productColumns = `id, name, mark, category, description, price, stock, COALESCE(image_url, ''), COALESCE(public_id, '')`

// CountSQL builds the count statement sharing the listing filter.
func (q ListQuery) CountSQL() (string, []any) {
	query := `SELECT COUNT(*) FROM products`
	args := []any{}
	if q.Category != "" {
		query += ` WHERE category = $1`
		args = append(args, q.Category)
	}
	return query, args
}

// SelectSQL builds the data statement. Sort column and direction come from the
// allow-list enumerations; everything user-supplied is bound as a parameter.
func (q ListQuery) SelectSQL() (string, []any) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	argCount := 0

	if q.Category != "" {
		argCount++
		query += ` WHERE category = $` + strconv.Itoa(argCount)
		args = append(args, q.Category)
	}

	query += ` ORDER BY ` + string(q.Sort) + ` ` + string(q.Dir)

	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, q.Limit)

	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, q.Offset())

	return query, args
}
