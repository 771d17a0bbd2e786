package internal

// Bitset is a fixed-size set of cell indexes.
type Bitset struct {
	words []uint64
}

// NewBitset returns a set able to hold indexes in [0, size).
func NewBitset(size int) *Bitset {
	return &Bitset{words: make([]uint64, (size+63)/64)}
}

// Set adds i to the set.
func (b *Bitset) Set(i int) {
	b.words[i/64] |= 1 << (uint(i) % 64)
}

// Has reports whether i is in the set.
func (b *Bitset) Has(i int) bool {
	return b.words[i/64]&(1<<(uint(i)%64)) != 0
}

