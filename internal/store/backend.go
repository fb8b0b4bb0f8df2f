package store

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/balancebuddy/internal/model"
)

// Backend names accepted by Open.
const (
	KindSQLite = "sqlite"
	KindJSON   = "json"
)

// Backend is a persistence target for the budget engine.
type Backend interface {
	Load() (model.State, bool, error)
	Save(model.State) error
	Update(fn func(st *model.State, found bool) bool) error
	Close() error
}

// PathFor returns the storage file for a backend kind inside dataDir.
func PathFor(kind, dataDir string) string {
	if kind == KindJSON {
		return filepath.Join(dataDir, "budget.json")
	}
	return filepath.Join(dataDir, "budget.db")
}

// Open opens the backend named by kind inside dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch kind {
	case KindSQLite, "":
		return OpenSQLite(PathFor(KindSQLite, dataDir))
	case KindJSON:
		return OpenFile(PathFor(KindJSON, dataDir))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", kind, KindSQLite, KindJSON)
	}
}
