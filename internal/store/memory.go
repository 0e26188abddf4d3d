package store

import (
	"context"
	"sync"

	"github.com/jack/golang-url-alias-service/internal/model"
)

// Memory is the in-process reference backend. The outer RWMutex guards
// the map; each record carries its own mutex so concurrent clicks on
// different shortcodes never contend.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	mu  sync.Mutex
	rec model.AliasRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*memoryRecord)}
}

func (m *Memory) Insert(_ context.Context, record *model.AliasRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ShortCode]; ok {
		return ErrCodeExists
	}

	m.records[record.ShortCode] = &memoryRecord{rec: *copyRecord(record)}
	return nil
}

func (m *Memory) Contains(_ context.Context, shortCode string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.records[shortCode]
	return ok, nil
}

func (m *Memory) Get(_ context.Context, shortCode string) (*model.AliasRecord, error) {
	m.mu.RLock()
	entry, ok := m.records[shortCode]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return copyRecord(&entry.rec), nil
}

func (m *Memory) RecordClick(_ context.Context, shortCode string, event model.ClickEvent) error {
	m.mu.RLock()
	entry, ok := m.records[shortCode]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.rec.ClickCount++
	entry.rec.Clicks = append(entry.rec.Clicks, event)
	return nil
}

func (m *Memory) Health(_ context.Context) error {
	return nil
}
