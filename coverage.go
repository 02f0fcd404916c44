package textrun

import "sync"

// coverageMap memoizes per-font codepoint coverage using 2 bits per rune
// (checked, covered), allocated in 256-rune blocks on demand. Cmap lookups
// are cheap but classification with fallback queries the same runes over and
// over; the memo keeps that path allocation-free for repeated text.
//
// coverageMap is safe for concurrent use and must not be copied.
type coverageMap struct {
	mu     sync.RWMutex
	blocks map[uint32]*coverageBlock
}

// coverageBlock holds 256 runes at 2 bits each (bit 0 checked, bit 1 covered).
type coverageBlock struct {
	bits [8]uint64
}

func newCoverageMap() *coverageMap {
	return &coverageMap{blocks: make(map[uint32]*coverageBlock)}
}

// lookup returns (covered, checked). checked is false for runes that were
// never stored.
func (m *coverageMap) lookup(r rune) (covered, checked bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blocks[uint32(r)>>8]
	if !ok {
		return false, false
	}

	bit := (uint32(r) & 0xFF) * 2
	word := b.bits[bit/64]
	return word>>(bit%64+1)&1 != 0, word>>(bit%64)&1 != 0
}

// store records the coverage result for a rune and marks it checked.
func (m *coverageMap) store(r rune, covered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := uint32(r) >> 8
	b, ok := m.blocks[idx]
	if !ok {
		b = &coverageBlock{}
		m.blocks[idx] = b
	}

	bit := (uint32(r) & 0xFF) * 2
	b.bits[bit/64] |= 1 << (bit % 64)
	if covered {
		b.bits[bit/64] |= 1 << (bit%64 + 1)
	} else {
		b.bits[bit/64] &^= 1 << (bit%64 + 1)
	}
}
