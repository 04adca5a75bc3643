package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	since = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

// TestFingerprintOrderIndependent verifies the fingerprint does not depend
// on the order records were fetched in.
func TestFingerprintOrderIndependent(t *testing.T) {
	a := Fingerprint("heatmap", []string{"sha1", "sha2", "sha3"}, since, until)
	b := Fingerprint("heatmap", []string{"sha3", "sha1", "sha2"}, since, until)
	assert.Equal(t, a, b)
}

// TestFingerprintSensitivity verifies any change to kind, record set, or
// window bounds produces a different key.
func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint("heatmap", []string{"sha1", "sha2"}, since, until)

	tests := []struct {
		name string
		got  string
	}{
		{name: "different kind", got: Fingerprint("trends", []string{"sha1", "sha2"}, since, until)},
		{name: "extra record", got: Fingerprint("heatmap", []string{"sha1", "sha2", "sha3"}, since, until)},
		{name: "missing record", got: Fingerprint("heatmap", []string{"sha1"}, since, until)},
		{name: "different since", got: Fingerprint("heatmap", []string{"sha1", "sha2"}, since.AddDate(0, 0, 1), until)},
		{name: "different until", got: Fingerprint("heatmap", []string{"sha1", "sha2"}, since, until.AddDate(0, 0, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.got)
		})
	}
}

// TestFingerprintSeparatorSafety verifies record identities cannot collide by
// concatenation.
func TestFingerprintSeparatorSafety(t *testing.T) {
	a := Fingerprint("heatmap", []string{"ab", "c"}, since, until)
	b := Fingerprint("heatmap", []string{"a", "bc"}, since, until)
	assert.NotEqual(t, a, b)
}

// TestGetOrComputeComputesOnce verifies repeated lookups with the same
// fingerprint reuse the stored value.
func TestGetOrComputeComputesOnce(t *testing.T) {
	c := New(8)
	fp := Fingerprint("heatmap", []string{"sha1"}, since, until)

	calls := 0
	compute := func() any {
		calls++
		return "result"
	}

	first := c.GetOrCompute(fp, compute)
	second := c.GetOrCompute(fp, compute)

	assert.Equal(t, "result", first)
	assert.Equal(t, "result", second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

// TestGetOrComputeWindowSensitive verifies a different window recomputes even
// for the same record set.
func TestGetOrComputeWindowSensitive(t *testing.T) {
	c := New(8)
	records := []string{"sha1", "sha2"}

	calls := 0
	compute := func() any {
		calls++
		return calls
	}

	c.GetOrCompute(Fingerprint("heatmap", records, since, until), compute)
	c.GetOrCompute(Fingerprint("heatmap", records, since, until.AddDate(0, 0, 7)), compute)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, c.Len())
}

// TestCacheEviction verifies the cache stays bounded and primes the least
// recently used entry for eviction.
func TestCacheEviction(t *testing.T) {
	c := New(2)

	calls := 0
	computeFor := func(id string) func() any {
		return func() any {
			calls++
			return id
		}
	}

	fp := func(id string) string {
		return Fingerprint("heatmap", []string{id}, since, until)
	}

	c.GetOrCompute(fp("a"), computeFor("a"))
	c.GetOrCompute(fp("b"), computeFor("b"))
	require.Equal(t, 2, c.Len())

	// Touch a so b becomes the eviction candidate.
	c.GetOrCompute(fp("a"), computeFor("a"))
	c.GetOrCompute(fp("c"), computeFor("c"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, calls)

	// b was evicted; a survived.
	c.GetOrCompute(fp("a"), computeFor("a"))
	assert.Equal(t, 3, calls)
	c.GetOrCompute(fp("b"), computeFor("b"))
	assert.Equal(t, 4, calls)
}

func TestNewDefaultSize(t *testing.T) {
	c := New(0)
	for i := 0; i < DefaultSize+10; i++ {
		id := fmt.Sprintf("sha%d", i)
		c.GetOrCompute(Fingerprint("heatmap", []string{id}, since, until), func() any { return id })
	}
	assert.Equal(t, DefaultSize, c.Len())
}

func TestPurge(t *testing.T) {
	c := New(4)
	c.GetOrCompute(Fingerprint("heatmap", []string{"sha1"}, since, until), func() any { return 1 })
	require.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
