package interfaces

import (
	"context"
	"errors"
)

// Sentinel errors shared by every repository backend.
var (
	// ErrNotFound indicates that an identifier did not resolve to an
	// existing record.
	ErrNotFound = errors.New("record not found")

	// ErrTxContention indicates that a transaction was aborted due to
	// transient contention and may be retried.
	ErrTxContention = errors.New("transaction contention")
)

// Repository defines the interface for data persistence
type Repository interface {
	Task() TaskRepository
	Sprint() SprintRepository
	Epic() EpicRepository

	// InTx runs fn inside a single all-or-nothing transaction. Every
	// read and write performed through the Tx handle either commits as
	// a whole or leaves no trace. A lock acquired through Tx.LockTask
	// is held until the transaction ends.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}
