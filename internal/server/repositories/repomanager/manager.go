// Package repomanager vends the typed repositories backed by one record
// store.
package repomanager

import (
	"github.com/dmitrijs2005/pulsecheck/internal/server/records"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/checks"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Tokens() tokens.Repository
	Checks() checks.Repository
}

// RecordRepositoryManager builds repositories over a records.Store.
type RecordRepositoryManager struct {
	store records.Store
}

func NewRecordRepositoryManager(store records.Store) *RecordRepositoryManager {
	return &RecordRepositoryManager{store: store}
}

func (m *RecordRepositoryManager) Users() users.Repository {
	return users.NewRecordRepository(m.store)
}

func (m *RecordRepositoryManager) Tokens() tokens.Repository {
	return tokens.NewRecordRepository(m.store)
}

func (m *RecordRepositoryManager) Checks() checks.Repository {
	return checks.NewRecordRepository(m.store)
}
