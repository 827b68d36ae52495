package diff

// interner assigns dense sequential IDs to unique strings. It is shared
// across both line sequences of one computation, so two lines with the
// same (trimmed) content receive the same ID on either side.
type interner struct {
	ids map[string]uint32
}

func newInterner(sizeHint int) *interner {
	return &interner{ids: make(map[string]uint32, sizeHint)}
}

func (it *interner) getOrCreate(s string) uint32 {
	id, ok := it.ids[s]
	if !ok {
		id = uint32(len(it.ids))
		it.ids[s] = id
	}
	return id
}
