// Package tsid generates time-sortable 64-bit identifiers.
//
// An id packs 42 bits of milliseconds since a custom epoch, 10 node bits,
// and a 12-bit per-millisecond sequence, so ordering by id approximates
// ordering by creation time. The external form is a 13-character Crockford
// base32 string; raw integers never cross the API boundary.
package tsid

import (
	"fmt"
	"sync"
	"time"
)

const (
	nodeBits     = 10
	sequenceBits = 12

	maxNode     = (1 << nodeBits) - 1     // 1023
	maxSequence = (1 << sequenceBits) - 1 // 4095

	// Encoded length of a 64-bit id in base32
	stringLen = 13
)

// Epoch is the custom epoch (2025-01-01T00:00:00Z) ids count from
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var decodeTable = buildDecodeTable()

func buildDecodeTable() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		t[c] = int8(i)
		t[c|0x20] = int8(i) // lowercase
	}
	// Crockford aliases
	t['O'], t['o'] = 0, 0
	t['I'], t['i'] = 1, 1
	t['L'], t['l'] = 1, 1
	return t
}

// Generator produces unique, monotonically non-decreasing ids for one node.
// Node ids must differ per deployed instance; the zero-config default is
// only safe for single-instance deployments.
type Generator struct {
	mu       sync.Mutex
	node     int64
	lastMs   int64
	sequence int64
}

// NewGenerator creates a generator for the given node id (0..1023)
func NewGenerator(node int) (*Generator, error) {
	if node < 0 || node > maxNode {
		return nil, fmt.Errorf("tsid: node id %d out of range [0, %d]", node, maxNode)
	}
	return &Generator{node: int64(node)}, nil
}

// Generate returns the next id. When the per-millisecond sequence
// overflows it spins until the clock advances.
func (g *Generator) Generate() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Since(Epoch).Milliseconds()
	if now < g.lastMs {
		// Clock went backwards; hold at the last observed millisecond so
		// ids stay monotonic.
		now = g.lastMs
	}

	if now == g.lastMs {
		g.sequence++
		if g.sequence > maxSequence {
			for now <= g.lastMs {
				now = time.Since(Epoch).Milliseconds()
			}
			g.sequence = 0
		}
	} else {
		g.sequence = 0
	}
	g.lastMs = now

	return now<<(nodeBits+sequenceBits) | g.node<<sequenceBits | g.sequence
}

// Format encodes an id as its 13-character canonical string
func Format(id int64) string {
	var buf [stringLen]byte
	u := uint64(id)
	for i := stringLen - 1; i >= 0; i-- {
		buf[i] = alphabet[u&0x1F]
		u >>= 5
	}
	return string(buf[:])
}

// Parse decodes a canonical string back to the 64-bit id. Lowercase input
// and the Crockford aliases (O->0, I/L->1) are accepted.
func Parse(s string) (int64, error) {
	if len(s) != stringLen {
		return 0, fmt.Errorf("tsid: invalid id %q: must be %d characters", s, stringLen)
	}
	// The top character carries the 4 most significant bits only.
	first := decodeTable[s[0]]
	if first < 0 || first > 15 {
		return 0, fmt.Errorf("tsid: invalid id %q", s)
	}
	u := uint64(first)
	for i := 1; i < stringLen; i++ {
		v := decodeTable[s[i]]
		if v < 0 {
			return 0, fmt.Errorf("tsid: invalid character %q in id %q", s[i], s)
		}
		u = u<<5 | uint64(v)
	}
	return int64(u), nil
}

// UnixMilli extracts the creation time of an id
func UnixMilli(id int64) time.Time {
	ms := id >> (nodeBits + sequenceBits)
	return Epoch.Add(time.Duration(ms) * time.Millisecond)
}

// IsValid reports whether s parses as an id
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
