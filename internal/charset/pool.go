package charset

import (
	"errors"
	"slices"
	"strings"

	"github.com/simonhull/firebird-suite/passgen/internal/random"
)

// ErrEmptyPool is returned when characters are requested from a pool that
// has none.
var ErrEmptyPool = errors.New("character pool is empty")

// Pool is the multiset of candidate characters for sampling.
// Characters shared by several alphabets appear once per alphabet, which
// weights sampling towards them.
type Pool []rune

// Sample draws n characters independently and uniformly from the pool.
func (p Pool) Sample(src random.Source, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	if len(p) == 0 {
		return "", ErrEmptyPool
	}

	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteRune(random.Choice(src, p))
	}
	return b.String(), nil
}

// Members returns the distinct characters of the pool in ascending order.
func (p Pool) Members() []rune {
	members := slices.Clone(p)
	slices.Sort(members)
	return slices.Compact(members)
}

// Contains reports whether r is in the pool
func (p Pool) Contains(r rune) bool {
	return slices.Contains(p, r)
}

func (p Pool) String() string {
	return string(p)
}
