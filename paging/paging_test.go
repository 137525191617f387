package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Params{}.Normalize()
	assert.Equal(t, Params{Page: 1, PageSize: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p = Params{Page: 3, PageSize: 500, Q: "  cats "}.Normalize()
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, "cats", p.Q)
	assert.Equal(t, 200, p.Offset())

	p = Params{Page: -2, PageSize: -1}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%%", Params{}.LikePattern())
	assert.Equal(t, "%cats%", Params{Q: "CaTs"}.LikePattern())
	assert.Equal(t, `%50\% off\_now%`, Params{Q: "50% off_now"}.LikePattern())
}

func TestNewResult(t *testing.T) {
	r := NewResult[string](Params{Page: 1, PageSize: 10}, 0, nil)
	assert.NotNil(t, r.Items)
	assert.Equal(t, 0, r.Total)
}
