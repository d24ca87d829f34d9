package workbook

import (
	"context"
	"sync"
)

// MemoryHost is an in-process Host used for local development and tests.
// The zero value behaves like an empty selected cell.
type MemoryHost struct {
	mu   sync.Mutex
	cell any

	// ReadErr and WriteErr, when set, are returned by the corresponding
	// operation instead of touching the cell.
	ReadErr  error
	WriteErr error
}

// NewMemoryHost returns a MemoryHost whose selected cell holds value.
func NewMemoryHost(value any) *MemoryHost {
	return &MemoryHost{cell: value}
}

func (m *MemoryHost) ReadSelectedCell(ctx context.Context) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.cell, nil
}

func (m *MemoryHost) WriteSelectedCell(ctx context.Context, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.cell = value
	return nil
}

// SetCell replaces the selected cell value.
func (m *MemoryHost) SetCell(value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cell = value
}

// Cell returns the current selected cell value.
func (m *MemoryHost) Cell() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cell
}
