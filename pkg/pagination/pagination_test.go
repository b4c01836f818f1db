package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	p := FromRequest(r, 20, 100)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ComputesOffset(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=3&page_size=10", nil)
	p := FromRequest(r, 20, 100)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestFromRequest_IgnoresOutOfRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=-1&page_size=500", nil)
	p := FromRequest(r, 20, 100)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestNewResult(t *testing.T) {
	params := Params{Page: 2, PerPage: 5}
	res := NewResult([]int{1, 2, 3, 4, 5}, 12, params)

	assert.Equal(t, 12, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_NilDataBecomesEmptySlice(t *testing.T) {
	res := NewResult[int](nil, 0, Params{Page: 1, PerPage: 20})
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.False(t, res.HasNext)
	assert.False(t, res.HasPrev)
}
