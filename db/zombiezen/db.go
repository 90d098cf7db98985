package zombiezen

import (
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/db"
)

// Db implements the application store interfaces on a zombiezen sqlite
// connection pool.
type Db struct {
	pool *sqlitex.Pool
}

var _ db.DbAuth = (*Db)(nil)
var _ db.DbSession = (*Db)(nil)
var _ db.DbAuditLog = (*Db)(nil)
var _ db.DbApp = (*Db)(nil)

// New wraps an existing pool. The pool's lifecycle is managed by the
// caller; Db never closes it.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}
