package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, uint64(20), limit)

	offset, limit = CalculateOffsetLimit(0, 500)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(DefaultPageSize), limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(25), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, info := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, info.TotalPages)

	page, _ = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)

	page, _ = Paginate(items, 9, 2)
	assert.Empty(t, page)
}

func TestPaginateHugePage(t *testing.T) {
	page, info := Paginate([]int{1, 2, 3}, math.MaxInt64/10+2, 10)
	assert.Empty(t, page)
	assert.Equal(t, MaxPage, info.CurrentPage)

	offset, limit := CalculateOffsetLimit(math.MaxInt, MaxPageSize)
	assert.Equal(t, uint64((MaxPage-1)*MaxPageSize), offset)
	assert.Equal(t, uint64(MaxPageSize), limit)
}

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, "ayse@example.com", NormalizeEmail("  Ayse@Example.COM "))
	assert.True(t, ContainsFold("Senior Go Engineer", "go eng"))
	assert.False(t, ContainsFold("Designer", "go"))
	assert.Equal(t, []string{"Go", "Cloud"}, CleanList([]string{" Go ", "", "go", "Cloud"}))
	assert.Nil(t, OptionalString("  "))
	assert.Equal(t, "x", *OptionalString(" x "))
}
