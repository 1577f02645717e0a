package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	p, err := ParsePage(url.Values{}, 20)
	require.NoError(t, err)
	assert.Equal(t, Page{Number: 1, Size: 20}, p)

	p, err = ParsePage(url.Values{"page": {"3"}}, 20)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Offset())

	for _, bad := range []string{"0", "-1", "two", "1.5"} {
		_, err := ParsePage(url.Values{"page": {bad}}, 20)
		assert.ErrorIs(t, err, common.ErrInvalidPage, bad)
	}
}

func TestResult_Navigation(t *testing.T) {
	total := 45
	tests := []struct {
		page     int
		next     bool
		previous bool
		valid    bool
	}{
		{page: 1, next: true, previous: false, valid: true},
		{page: 2, next: true, previous: true, valid: true},
		{page: 3, next: false, previous: true, valid: true},
		{page: 4, next: false, previous: true, valid: false},
	}

	for _, tt := range tests {
		r := Result[int]{Total: total, Page: Page{Number: tt.page, Size: 20}}
		assert.Equal(t, tt.next, r.HasNext(), "page %d next", tt.page)
		assert.Equal(t, tt.previous, r.HasPrevious(), "page %d previous", tt.page)
		if tt.valid {
			assert.NoError(t, r.Check(), "page %d", tt.page)
		} else {
			assert.ErrorIs(t, r.Check(), common.ErrInvalidPage, "page %d", tt.page)
		}
	}
}

func TestResult_EmptyFirstPageIsValid(t *testing.T) {
	r := Result[int]{Total: 0, Page: Page{Number: 1, Size: 20}}
	assert.NoError(t, r.Check())
	assert.False(t, r.HasNext())
	assert.False(t, r.HasPrevious())
}

func TestParsePage_RejectsOverflowingOffset(t *testing.T) {
	for _, raw := range []string{"461168601842738792", "9223372036854775807"} {
		_, err := ParsePage(url.Values{"page": {raw}}, 20)
		assert.ErrorIs(t, err, common.ErrInvalidPage, raw)
	}

	p, err := ParsePage(url.Values{"page": {"1000000"}}, 20)
	require.NoError(t, err)
	assert.Equal(t, 19999980, p.Offset())
}

func TestPaginate_NegativeOffset(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Empty(t, Paginate(items, Page{Number: math.MaxInt / 10, Size: 20}))
}
