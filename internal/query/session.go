package query

import (
	"context"
	"sync"

	"github.com/edu-agent/backend/internal/cache/redis"
	"github.com/edu-agent/backend/internal/llm"
	"github.com/edu-agent/backend/internal/metrics"
	"github.com/edu-agent/backend/internal/storage/datastore"
	"github.com/edu-agent/backend/internal/storage/sqlite"
)

// Manager hands out one query engine per admin session so each conversation
// keeps its own bounded history. There is no process-wide engine.
type Manager struct {
	store    *datastore.Store
	analyzer llm.Analyzer
	audit    *sqlite.Client
	cache    *redis.Client

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewManager(store *datastore.Store, analyzer llm.Analyzer, audit *sqlite.Client, cache *redis.Client) *Manager {
	return &Manager{
		store:    store,
		analyzer: analyzer,
		audit:    audit,
		cache:    cache,
		engines:  make(map[string]*Engine),
	}
}

// EngineFor returns the admin's session engine, creating it on first use.
func (m *Manager) EngineFor(adminID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, ok := m.engines[adminID]
	if !ok {
		engine = NewEngine(m.store, m.analyzer, m.audit, m.cache, adminID)
		m.engines[adminID] = engine
		metrics.ActiveSessions.Set(float64(len(m.engines)))
	}
	return engine
}

// ExecuteQuery runs one query through the admin's session engine. It never
// returns an error for business-logic conditions; every outcome is a
// renderable answer.
func (m *Manager) ExecuteQuery(ctx context.Context, adminID, queryText string) Result {
	return m.EngineFor(adminID).Execute(ctx, queryText)
}

// ResetContext clears the admin's conversation history; a no-op for a
// session that was never started.
func (m *Manager) ResetContext(adminID string) {
	m.mu.Lock()
	engine, ok := m.engines[adminID]
	m.mu.Unlock()

	if ok {
		engine.ResetContext()
	}
}
