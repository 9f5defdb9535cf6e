package scores

import (
	"errors"
	"sort"
)

// ErrNoOverlap is returned by Match when the two mappings share no keys.
var ErrNoOverlap = errors.New("no overlapping keys")

// Matched holds aligned values for the keys two score mappings share.
// X[i] and Y[i] both belong to Keys[i].
type Matched struct {
	Keys []Key
	X    []float64
	Y    []float64
}

// Len reports the number of matched pairs.
func (m *Matched) Len() int { return len(m.Keys) }

// Match intersects the keys of a and b and returns their values aligned in
// key order.
func Match(a, b map[Key]float64) (*Matched, error) {
	// iterate the smaller map
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	keys := make([]Key, 0, len(small))
	for k := range small {
		if _, ok := large[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, ErrNoOverlap
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	m := &Matched{
		Keys: keys,
		X:    make([]float64, len(keys)),
		Y:    make([]float64, len(keys)),
	}
	for i, k := range keys {
		m.X[i] = a[k]
		m.Y[i] = b[k]
	}
	return m, nil
}
