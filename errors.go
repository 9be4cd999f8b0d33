package kariru

import "fmt"

// BorrowConflictError reports an access that would violate the aliasing
// invariant: at most one mutable reference, or any number of shared
// references, per entity at any instant. It is delivered by panic, because a
// conflict is a programming error, not a recoverable condition; the panic is
// raised before any side effect, so the store is left untouched.
type BorrowConflictError struct {
	Entity Entity // zero value when the conflict is lens-scoped
	Op     string // the rejected operation, e.g. "EntityMut.Take"
	State  string // the borrow state that rejected it
}

func (e *BorrowConflictError) Error() string {
	return fmt.Sprintf("kariru: %s rejected: entity %d is %s", e.Op, e.Entity.ID, e.State)
}

// HandleConsumedError reports use of an EntityMut after Despawn consumed it.
// Delivered by panic, like BorrowConflictError.
type HandleConsumedError struct {
	Entity Entity
	Op     string
}

func (e *HandleConsumedError) Error() string {
	return fmt.Sprintf("kariru: %s rejected: handle for entity %d was consumed by Despawn", e.Op, e.Entity.ID)
}

// Borrow states reported in BorrowConflictError.State.
const (
	stateSharedBorrowed = "shared-borrowed"
	stateMutBorrowed    = "mutably-borrowed"
	stateLensBorrowed   = "lens-borrowed"
)
