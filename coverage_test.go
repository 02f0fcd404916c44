package textrun

import (
	"sync"
	"testing"
)

func TestCoverageMapLookupStore(t *testing.T) {
	m := newCoverageMap()

	if _, checked := m.lookup('A'); checked {
		t.Error("fresh map reports 'A' as checked")
	}

	m.store('A', true)
	covered, checked := m.lookup('A')
	if !checked || !covered {
		t.Errorf("lookup('A') = (%v, %v), want (true, true)", covered, checked)
	}

	m.store('B', false)
	covered, checked = m.lookup('B')
	if !checked || covered {
		t.Errorf("lookup('B') = (%v, %v), want (false, true)", covered, checked)
	}

	// Overwriting flips the covered bit without losing checked.
	m.store('A', false)
	covered, checked = m.lookup('A')
	if !checked || covered {
		t.Errorf("after overwrite: lookup('A') = (%v, %v), want (false, true)", covered, checked)
	}
}

func TestCoverageMapBlockBoundaries(t *testing.T) {
	m := newCoverageMap()

	// Runes at block edges and across planes must not alias.
	runes := []rune{0, 0xFF, 0x100, 0x101, 0x4E16, 0x1F600}
	for i, r := range runes {
		m.store(r, i%2 == 0)
	}
	for i, r := range runes {
		covered, checked := m.lookup(r)
		if !checked {
			t.Errorf("rune %#x not checked after store", r)
		}
		if covered != (i%2 == 0) {
			t.Errorf("rune %#x: covered = %v, want %v", r, covered, i%2 == 0)
		}
	}

	// A neighbor in the same block stays unchecked.
	if _, checked := m.lookup(0x102); checked {
		t.Error("unstored neighbor reported as checked")
	}
}

func TestCoverageMapConcurrent(t *testing.T) {
	m := newCoverageMap()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for r := rune(0); r < 1024; r++ {
				m.store(r, r%3 == 0)
				m.lookup(r)
			}
		}(w)
	}
	wg.Wait()

	for r := rune(0); r < 1024; r++ {
		covered, checked := m.lookup(r)
		if !checked || covered != (r%3 == 0) {
			t.Fatalf("rune %#x: (%v, %v) after concurrent stores", r, covered, checked)
		}
	}
}
