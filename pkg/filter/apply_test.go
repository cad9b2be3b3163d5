package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

func TestApplyLeavesStateOnError(t *testing.T) {
	key := func(name string) domain.KeyFunc {
		return func(r domain.Record) interface{} { return r[name] }
	}
	fi, err := New(
		WithRecords(domain.Record{"forks": 10.0, "fork": true}, domain.Record{"forks": 30.0, "fork": false}),
		WithIndex("forks", key("forks")),
		WithIndex("fork", key("fork")),
	)
	require.NoError(t, err)

	_, err = fi.Get(domain.Filters{"fork": true}, "")
	require.NoError(t, err)
	require.True(t, fi.dims["fork"].Filtered())

	tests := []domain.Filters{
		{"forks": ">=20", "stars": 1},
		{"forks": ">=20", "fork": ">=1.2.3"},
		{"forks": ">=20", "fork": []int{1, 2, 3}},
	}
	for _, filters := range tests {
		_, err := fi.Get(filters, "")
		require.Error(t, err)
		assert.False(t, fi.dims["forks"].Filtered(), "%v", filters)
		assert.True(t, fi.dims["fork"].Filtered(), "%v", filters)

		n, err := fi.DelRecords(filters)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.False(t, fi.dims["forks"].Filtered(), "%v", filters)
	}
	assert.Equal(t, 2, fi.Size())
}
