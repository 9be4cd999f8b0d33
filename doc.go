// Package kariru implements an archetype-based entity-component store with
// runtime borrow checking on its handle API.
//
// The Store owns all component memory, keyed by (entity, component type).
// Access goes through three layers above the raw storage:
//
//   - EntityRef: a read-only view over one entity's components.
//   - EntityMut: the sole mutation and destruction path for one entity,
//     guarded by a per-entity borrow ledger. At most one mutable reference,
//     or any number of shared references, may be live at once; structural
//     operations (Insert, Take, Despawn) require the ledger to be idle.
//   - Lens1/Lens2/Lens3: reusable views scoped to a declared component set,
//     narrowable to subsets without re-touching the Store.
//
// Absence (dead entity, missing component) is reported with (zero, false)
// returns. Borrow conflicts are programming errors and panic with a
// *BorrowConflictError before any side effect; using a handle after Despawn
// panics with a *HandleConsumedError.
//
// A Store is not safe for concurrent use; callers must synchronize
// externally. The borrow ledger guards temporal overlap of live references
// within one goroutine, not parallel execution.
package kariru
