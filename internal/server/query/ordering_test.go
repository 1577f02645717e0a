package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderingSpec_Parse(t *testing.T) {
	spec := OrderingSpec{Fields: []string{"created_on", "updated_on"}}

	tests := []struct {
		name string
		raw  string
		want []Order
	}{
		{name: "absent", raw: "", want: nil},
		{name: "ascending", raw: "created_on", want: []Order{{Field: "created_on"}}},
		{name: "descending", raw: "-updated_on", want: []Order{{Field: "updated_on", Desc: true}}},
		{name: "multiple", raw: "-updated_on, created_on", want: []Order{{Field: "updated_on", Desc: true}, {Field: "created_on"}}},
		{name: "unknown dropped", raw: "node,created_on", want: []Order{{Field: "created_on"}}},
		{name: "duplicates dropped", raw: "created_on,-created_on", want: []Order{{Field: "created_on"}}},
		{name: "only unknown", raw: "status", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.raw != "" {
				values.Set("ordering", tt.raw)
			}
			assert.Equal(t, tt.want, spec.Parse(values))
		})
	}
}

func TestOrderingSpec_CustomParam(t *testing.T) {
	spec := OrderingSpec{Param: "sort", Fields: []string{"created_on"}}
	assert.Equal(t, []Order{{Field: "created_on", Desc: true}}, spec.Parse(url.Values{"sort": {"-created_on"}}))
	assert.Nil(t, spec.Parse(url.Values{"ordering": {"created_on"}}))
}
