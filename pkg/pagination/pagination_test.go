package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greekgang/terminal/internal/domain/domainerr"
)

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, PerPage: 0}.Normalize(10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)

	p = Params{Page: -3, PerPage: 25}.Normalize(10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PerPage)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, PerPage: 10}.Offset())
}

func TestPageNavigation(t *testing.T) {
	// 25 items at 10 per page
	first, err := New(make([]int, 10), 25, Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	middle, err := New(make([]int, 10), 25, Params{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.True(t, middle.HasPrev())
	assert.True(t, middle.HasNext())

	last, err := New(make([]int, 5), 25, Params{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())
	assert.Len(t, last.Items, 5)
}

func TestPastTheEnd(t *testing.T) {
	pg, err := New([]int(nil), 25, Params{Page: 9, PerPage: 10})
	require.NoError(t, err)
	assert.NotNil(t, pg.Items)
	assert.Empty(t, pg.Items)
	assert.False(t, pg.HasNext())
}

func TestStrictPastTheEnd(t *testing.T) {
	_, err := New([]int(nil), 25, Params{Page: 9, PerPage: 10, Strict: true})
	assert.ErrorIs(t, err, domainerr.ErrNotFound)

	// strict page 1 of an empty collection is still fine
	pg, err := New([]int(nil), 0, Params{Page: 1, PerPage: 10, Strict: true})
	require.NoError(t, err)
	assert.Empty(t, pg.Items)
}
