package store

// memory.go is an in-process TableStore used as the test double. It follows
// the same contract as the Sheets adapter: unknown tables come into
// existence empty, and ReplaceRows swaps the whole content.

import (
	"context"
	"sync"
)

type memTable struct {
	header []string
	rows   [][]string
}

// MemStore is an in-memory TableStore with fault injection for tests.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]*memTable

	// failNext, when set, makes the next operation return that error once.
	failNext error

	reads  int
	writes int
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

// FailNext arranges for the next GetRows or ReplaceRows call to fail once.
func (m *MemStore) FailNext(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

// Reads reports how many GetRows calls reached this store.
func (m *MemStore) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes reports how many ReplaceRows calls reached this store.
func (m *MemStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// GetRows returns copies of the table content, creating the table if needed.
func (m *MemStore) GetRows(ctx context.Context, table string) ([]string, [][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, nil, err
	}
	m.reads++

	t, ok := m.tables[table]
	if !ok {
		m.tables[table] = &memTable{}
		return nil, nil, nil
	}
	return copyRow(t.header), copyRows(t.rows), nil
}

// ReplaceRows overwrites the table content with copies of the input.
func (m *MemStore) ReplaceRows(ctx context.Context, table string, header []string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return err
	}
	m.writes++

	m.tables[table] = &memTable{
		header: copyRow(header),
		rows:   copyRows(rows),
	}
	return nil
}
