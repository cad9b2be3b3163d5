package filter_test

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-filter/pkg/domain"
	"github.com/adfharrison1/go-filter/pkg/filter"
)

func loadRepos(t *testing.T) []domain.Record {
	t.Helper()
	data, err := os.ReadFile("testdata/repos.json")
	require.NoError(t, err)

	var records []domain.Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 63)
	return records
}

func field(name string) domain.KeyFunc {
	return func(r domain.Record) interface{} { return r[name] }
}

func updatedMillis(r domain.Record) interface{} {
	ts, err := time.Parse(time.RFC3339, r["updated_at"].(string))
	if err != nil {
		return nil
	}
	return ts.UnixMilli()
}

func newRepoIndex(t *testing.T) *filter.FilterIndex {
	t.Helper()
	fi, err := filter.New(filter.WithRecords(loadRepos(t)...))
	require.NoError(t, err)

	require.NoError(t, fi.AddIndex("name", field("name")))
	require.NoError(t, fi.AddIndex("forks", field("forks")))
	require.NoError(t, fi.AddIndex("stars", field("stargazers_count")))
	require.NoError(t, fi.AddIndex("updated", updatedMillis))
	require.NoError(t, fi.AddIndex("fork", field("fork")))

	for _, name := range []string{"name", "forks", "stars", "updated", "fork"} {
		assert.True(t, fi.HasIndex(name))
	}
	return fi
}

func names(records []domain.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["name"].(string))
	}
	return out
}

func TestRepositoryScenario(t *testing.T) {
	fi := newRepoIndex(t)

	morningUpdate := func(v interface{}) bool {
		h := time.UnixMilli(v.(int64)).UTC().Hour()
		return h > 16 && h < 20
	}

	tests := []struct {
		name    string
		filters domain.Filters
		want    int
	}{
		{"equal filter", domain.Filters{"name": "express"}, 1},
		{"comparison on numbers", domain.Filters{"forks": ">=20"}, 15},
		{"strict greater", domain.Filters{"forks": ">20"}, 14},
		{"less than", domain.Filters{"forks": "<20"}, 48},
		{"less or equal", domain.Filters{"forks": "<=20"}, 49},
		{"between", domain.Filters{"stars": []interface{}{416, 703}}, 6},
		{"boolean true", domain.Filters{"fork": true}, 12},
		{"boolean false", domain.Filters{"fork": false}, 48},
		{"test function", domain.Filters{"updated": morningUpdate}, 2},
		{"two dimensions", domain.Filters{"forks": ">=20", "fork": false}, 13},
		{"two dimensions with range", domain.Filters{"stars": [2]int{416, 703}, "fork": true}, 1},
		{"no filter", nil, 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fi.Get(tt.filters, "")
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestGetSortsByIndex(t *testing.T) {
	fi := newRepoIndex(t)

	got, err := fi.Get(domain.Filters{"stars": []int{416, 703}}, "stars")
	require.NoError(t, err)
	assert.Equal(t, []string{"connect", "on-headers", "rest-lite", "string.js", "node-uuid", "co"}, names(got))

	// defaults to the first registered index, "name"
	got, err = fi.Get(domain.Filters{"updated": domain.Range{Lo: int64(0), Hi: int64(1) << 62}}, "")
	require.NoError(t, err)
	require.Len(t, got, 63)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1]["name"].(string), got[i]["name"].(string))
	}
}

func TestGetDoesNotKeepFilters(t *testing.T) {
	fi := newRepoIndex(t)

	first, err := fi.Get(domain.Filters{}, "")
	require.NoError(t, err)
	second, err := fi.Get(domain.Filters{}, "")
	require.NoError(t, err)
	assert.Equal(t, names(first), names(second))

	_, err = fi.Get(domain.Filters{"forks": ">=20"}, "")
	require.NoError(t, err)
	got, err := fi.Get(domain.Filters{"fork": true}, "")
	require.NoError(t, err)
	assert.Len(t, got, 12, "forks filter from the previous call must be cleared")

	// size ignores filters
	assert.Equal(t, 63, fi.Size())
}

func TestAddIndexReplacesExisting(t *testing.T) {
	fi := newRepoIndex(t)

	// "stars" now indexes forks
	require.NoError(t, fi.AddIndex("stars", field("forks")))
	assert.Equal(t, []string{"name", "forks", "stars", "updated", "fork"}, fi.Indexes())

	got, err := fi.Get(domain.Filters{"stars": ">=20"}, "stars")
	require.NoError(t, err)
	assert.Len(t, got, 15)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1]["forks"].(float64), got[i]["forks"].(float64))
	}
}

func TestDelIndex(t *testing.T) {
	fi := newRepoIndex(t)

	require.NoError(t, fi.DelIndex("name"))
	assert.False(t, fi.HasIndex("name"))
	assert.Equal(t, []string{"forks", "stars", "updated", "fork"}, fi.Indexes())

	err := fi.DelIndex("name")
	var unknown *filter.UnknownDimensionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "name", unknown.Name)
	assert.Contains(t, err.Error(), "does not exist")

	// the next registered index becomes the default sort
	got, err := fi.Get(nil, "")
	require.NoError(t, err)
	require.Len(t, got, 63)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1]["forks"].(float64), got[i]["forks"].(float64))
	}
}

func TestDelRecords(t *testing.T) {
	fi := newRepoIndex(t)

	n, err := fi.DelRecords(domain.Filters{"fork": false})
	require.NoError(t, err)
	assert.Equal(t, 48, n)
	assert.Equal(t, 15, fi.Size())

	got, err := fi.Get(domain.Filters{"fork": false}, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = fi.Get(domain.Filters{"fork": true}, "")
	require.NoError(t, err)
	assert.Len(t, got, 12, "unmatched records are untouched")

	n, err = fi.DelRecords(domain.Filters{"forks": ">=20", "fork": true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 13, fi.Size())

	n, err = fi.DelRecords(nil)
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, 0, fi.Size())
}

func TestDelRecordsClearsStaleFilters(t *testing.T) {
	fi := newRepoIndex(t)

	// leaves fork=false installed on the "fork" index; express is a fork
	_, err := fi.Get(domain.Filters{"fork": false}, "")
	require.NoError(t, err)

	n, err := fi.DelRecords(domain.Filters{"name": "express"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 62, fi.Size())
}

func TestAddRecords(t *testing.T) {
	fi := newRepoIndex(t)

	fi.AddRecords(domain.Record{
		"name":             "aaa-new",
		"forks":            99.0,
		"stargazers_count": 500.0,
		"updated_at":       "2015-01-01T18:00:00Z",
		"fork":             true,
	})
	assert.Equal(t, 64, fi.Size())

	got, err := fi.Get(domain.Filters{"stars": []float64{416, 703}, "fork": true}, "")
	require.NoError(t, err)
	assert.Equal(t, "aaa-new", got[0]["name"])
	assert.Len(t, got, 2)

	fi.AddRecords()
	assert.Equal(t, 64, fi.Size())
}

func TestGetErrors(t *testing.T) {
	empty, err := filter.New()
	require.NoError(t, err)
	_, err = empty.Get(nil, "")
	assert.ErrorIs(t, err, filter.ErrEmptyRegistry)

	fi := newRepoIndex(t)
	var unknown *filter.UnknownDimensionError

	_, err = fi.Get(nil, "license")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "license", unknown.Name)

	_, err = fi.Get(domain.Filters{"license": "MIT"}, "")
	require.ErrorAs(t, err, &unknown)

	_, err = fi.DelRecords(domain.Filters{"forks": ">=20", "license": "MIT"})
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 63, fi.Size(), "no records removed when the filter map is invalid")

	var invalid *filter.InvalidPredicateError
	_, err = fi.Get(domain.Filters{"stars": []int{1, 2, 3}}, "")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "stars", invalid.Index)

	_, err = fi.DelRecords(domain.Filters{"fork": true, "forks": ">=1.2.3"})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 63, fi.Size())
}

func TestResultsShareRecords(t *testing.T) {
	fi := newRepoIndex(t)

	got, err := fi.Get(domain.Filters{"name": "express"}, "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got[0]["description"] = "fast, unopinionated"
	got = append(got[:0], domain.Record{"name": "fake"})

	again, err := fi.Get(domain.Filters{"name": "express"}, "")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "fast, unopinionated", again[0]["description"])
	assert.Equal(t, 63, fi.Size())
}

func TestConstructorOptions(t *testing.T) {
	records := []domain.Record{
		{"name": "b", "size": 2},
		{"name": "a", "size": 3},
		{"name": "c", "size": 1},
	}

	fi, err := filter.New(
		filter.WithRecords(records...),
		filter.WithIndexes(map[string]domain.KeyFunc{
			"size": field("size"),
			"name": field("name"),
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "size"}, fi.Indexes())

	got, err := fi.Get(nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(got))

	fi, err = filter.New(
		filter.WithIndex("size", field("size")),
		filter.WithIndex("name", field("name")),
		filter.WithRecords(records...),
	)
	require.NoError(t, err)
	got, err = fi.Get(nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(got))

	_, err = filter.New(filter.WithIndex("size", nil))
	assert.Error(t, err)
	_, err = filter.New(filter.WithIndex("", field("size")))
	assert.Error(t, err)
}

func TestConcurrentCalls(t *testing.T) {
	fi := newRepoIndex(t)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			got, err := fi.Get(domain.Filters{"fork": true}, "stars")
			if err != nil {
				errs <- err
				return
			}
			for _, r := range got {
				if r["fork"] != true {
					errs <- errors.New("record leaked through fork filter")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			_, err := fi.Get(domain.Filters{"forks": "<20"}, "")
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
