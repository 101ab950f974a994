package tsid

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(33)
	require.NoError(t, err)
	require.NotNil(t, g)

	_, err = NewGenerator(-1)
	assert.Error(t, err)

	_, err = NewGenerator(1024)
	assert.Error(t, err)
}

func TestGenerateUnique(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id := g.Generate()
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestGenerateMonotonic(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	prev := g.Generate()
	for i := 0; i < 10000; i++ {
		id := g.Generate()
		assert.Greater(t, id, prev, "ids must be strictly increasing for one generator")
		prev = id
	}
}

func TestGenerateConcurrent(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 1000

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, g.Generate())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				assert.False(t, seen[id])
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestFormatParseRoundTrip(t *testing.T) {
	g, err := NewGenerator(7)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		id := g.Generate()
		s := Format(id)
		assert.Len(t, s, 13)

		parsed, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestParseAcceptsLowercaseAndAliases(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	id := g.Generate()
	s := Format(id)

	lower := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c |= 0x20
		}
		lower[i] = c
	}

	parsed, err := Parse(string(lower))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	// Crockford aliases decode to the same value
	aliased, err := Parse("0000000000O1L")
	require.NoError(t, err)
	direct, err := Parse("0000000000011")
	require.NoError(t, err)
	assert.Equal(t, direct, aliased)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"SHORT",
		"0123456789ABCDEF", // too long
		"0123456789AB!",    // invalid character
		"U000000000000",    // U is not in the alphabet
	}
	for _, s := range cases {
		_, err := Parse(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
	assert.False(t, IsValid("not-an-id"))
}

func TestStringEncodingSortsLikeIDs(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	ids := make([]int64, 0, 500)
	strs := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		id := g.Generate()
		ids = append(ids, id)
		strs = append(strs, Format(id))
	}

	sorted := append([]string(nil), strs...)
	sort.Strings(sorted)
	assert.Equal(t, strs, sorted, "lexicographic order must match generation order")

	// Creation time is recoverable and non-decreasing
	for i := 1; i < len(ids); i++ {
		assert.False(t, UnixMilli(ids[i]).Before(UnixMilli(ids[i-1])))
	}
}

func TestDistinctNodesDistinctIDs(t *testing.T) {
	a, err := NewGenerator(1)
	require.NoError(t, err)
	b, err := NewGenerator(2)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		seen[a.Generate()] = true
		seen[b.Generate()] = true
	}
	assert.Len(t, seen, 2000)
}
