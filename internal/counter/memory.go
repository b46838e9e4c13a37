package counter

// MemStore is an in-memory Store for bench runs and tests. It honors the
// contract shape but obviously provides no durability.
type MemStore struct {
	value uint64
	set   bool
}

func (m *MemStore) Load() (uint64, error) {
	if !m.set {
		return 0, nil
	}
	return m.value, nil
}

func (m *MemStore) Store(value uint64) error {
	m.value = value
	m.set = true
	return nil
}
