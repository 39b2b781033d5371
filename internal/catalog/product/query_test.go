package product

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

func TestParseListQueryDefaults(t *testing.T) {
	q, err := ParseListQuery(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "", q.Category)
	assert.Equal(t, SortID, q.Sort)
	assert.Equal(t, SortAsc, q.Dir)
	assert.Equal(t, 0, q.Offset())
}

func TestParseListQueryClampsBadPageAndLimit(t *testing.T) {
	cases := map[string]url.Values{
		"non-numeric": {"page": {"abc"}, "limit": {"xyz"}},
		"zero":        {"page": {"0"}, "limit": {"0"}},
		"negative":    {"page": {"-3"}, "limit": {"-10"}},
		"empty":       {"page": {""}, "limit": {""}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			q, err := ParseListQuery(values)
			require.NoError(t, err)
			assert.Equal(t, 1, q.Page)
			assert.Equal(t, 10, q.Limit)
		})
	}
}

func TestParseListQueryAcceptsAllowListedSortFields(t *testing.T) {
	for _, field := range []string{"id", "name", "price", "stock"} {
		q, err := ParseListQuery(url.Values{"sortBy": {field}})
		require.NoError(t, err)
		assert.Equal(t, SortField(field), q.Sort)
	}
}

func TestParseListQueryRejectsUnknownSortField(t *testing.T) {
	for _, field := range []string{"created_at", "ID", "price; --", "id; DROP TABLE products"} {
		_, err := ParseListQuery(url.Values{"sortBy": {field}})
		require.Error(t, err, "sortBy=%q must be rejected", field)
		assert.ErrorIs(t, err, httpx.ErrValidation)
	}
}

func TestParseListQueryNormalizesOrder(t *testing.T) {
	q, err := ParseListQuery(url.Values{"order": {"desc"}})
	require.NoError(t, err)
	assert.Equal(t, SortDesc, q.Dir)

	q, err = ParseListQuery(url.Values{"order": {"DESC"}})
	require.NoError(t, err)
	assert.Equal(t, SortDesc, q.Dir)

	for _, order := range []string{"", "asc", "ascending", "sideways"} {
		q, err = ParseListQuery(url.Values{"order": {order}})
		require.NoError(t, err)
		assert.Equal(t, SortAsc, q.Dir, "order=%q", order)
	}
}

func TestListQueryOffset(t *testing.T) {
	q := ListQuery{Page: 3, Limit: 5}
	assert.Equal(t, 10, q.Offset())
}

func TestSelectSQLBindsUserValues(t *testing.T) {
	q, err := ParseListQuery(url.Values{
		"page":     {"2"},
		"limit":    {"5"},
		"category": {"tools"},
		"sortBy":   {"price"},
		"order":    {"desc"},
	})
	require.NoError(t, err)

	query, args := q.SelectSQL()
	assert.Contains(t, query, "WHERE category = $1")
	assert.Contains(t, query, "ORDER BY price DESC")
	assert.Contains(t, query, "LIMIT $2")
	assert.Contains(t, query, "OFFSET $3")
	assert.Equal(t, []any{"tools", 5, 5}, args)
}

func TestSelectSQLWithoutFilter(t *testing.T) {
	q, err := ParseListQuery(url.Values{})
	require.NoError(t, err)

	query, args := q.SelectSQL()
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY id ASC")
	assert.Equal(t, []any{10, 0}, args)
}

func TestCountSQLSharesFilter(t *testing.T) {
	q, err := ParseListQuery(url.Values{"category": {"tools"}})
	require.NoError(t, err)

	query, args := q.CountSQL()
	assert.Equal(t, `SELECT COUNT(*) FROM products WHERE category = $1`, query)
	assert.Equal(t, []any{"tools"}, args)

	query, args = ListQuery{}.CountSQL()
	assert.Equal(t, `SELECT COUNT(*) FROM products`, query)
	assert.Empty(t, args)
}
