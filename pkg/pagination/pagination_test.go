package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePerPage(t *testing.T) {
	assert.Equal(t, DefaultPerPage, NormalizePerPage(0))
	assert.Equal(t, DefaultPerPage, NormalizePerPage(-3))
	assert.Equal(t, 10, NormalizePerPage(10))
	assert.Equal(t, MaxPerPage, NormalizePerPage(500))
}

func TestResolveClampsOutOfRangePage(t *testing.T) {
	meta := Resolve(Params{Page: 5, PerPage: 10}, 23)

	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 3, meta.CurrentPage)
	assert.Equal(t, 21, meta.From)
	assert.Equal(t, 23, meta.To)

	start, end := meta.Bounds()
	assert.Equal(t, 20, start)
	assert.Equal(t, 23, end)
}

func TestResolveFirstPage(t *testing.T) {
	meta := Resolve(Params{Page: 0, PerPage: 10}, 23)

	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.From)
	assert.Equal(t, 10, meta.To)
	assert.Equal(t, 0, meta.Offset())
}

func TestResolveEmptyCollection(t *testing.T) {
	meta := Resolve(Params{Page: 2, PerPage: 10}, 0)

	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.LastPage)
	assert.Zero(t, meta.From)
	assert.Zero(t, meta.To)

	start, end := meta.Bounds()
	assert.Zero(t, start)
	assert.Zero(t, end)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(23, 10))
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}
