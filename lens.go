package kariru

// A lens is a reusable borrow source scoped to a declared set of component
// types: a factory that repeatedly mints views over that set for any entity,
// and that can be narrowed to a subset without re-touching the Store.
//
// Every lens family shares one ledger, rooted at the lens the family was
// created from. Query marks the lens's whole component mask as mutably
// borrowed in that ledger; a second Query whose mask overlaps a still-open
// view is a borrow conflict. Narrowed lenses keep the parent's ledger, so
// concurrent use of parent and child over the same component conflicts,
// while disjoint siblings may hold views at the same time.

// lensLedger tracks which component types of a lens family are currently
// borrowed by an open view.
type lensLedger struct {
	store    *Store
	borrowed bitmask256
}

func (l *lensLedger) acquire(mask bitmask256, op string) {
	if l.borrowed.intersects(mask) {
		l.store.conflict(Entity{}, op, stateLensBorrowed)
	}
	l.borrowed = l.borrowed.union(mask)
}

func (l *lensLedger) release(mask bitmask256) {
	l.borrowed = l.borrowed.difference(mask)
}

// ----------------------------------------
// Arity 1
// ----------------------------------------

// Lens1 is a lens over the single component type A.
type Lens1[A any] struct {
	ledger *lensLedger
	mask   bitmask256
	idA    uint8
}

// NewLens1 creates a lens over component type A, rooted in a fresh ledger.
func NewLens1[A any](s *Store) *Lens1[A] {
	idA := componentID[A](s)
	return &Lens1[A]{
		ledger: &lensLedger{store: s},
		mask:   mask1(idA),
		idA:    idA,
	}
}

// Query opens a view over the lens's component set, taking the mutable
// borrow of A in the family ledger. Panics with *BorrowConflictError if an
// overlapping view is still open.
func (l *Lens1[A]) Query() *LensView1[A] {
	l.ledger.acquire(l.mask, "Lens1.Query")
	return &LensView1[A]{lens: l}
}

// Entities enumerates the live entities carrying at least component A.
func (l *Lens1[A]) Entities() []Entity {
	return l.ledger.store.entitiesMatching(l.mask)
}

// LensView1 is an open view minted by Lens1.Query. It holds the mutable
// borrow of A until Close.
type LensView1[A any] struct {
	lens   *Lens1[A]
	closed bool
}

// Get returns a mutable pointer to the entity's A, or (nil, false) if the
// entity is dead or lacks A. The pointer is valid until the view closes.
func (v *LensView1[A]) Get(e Entity) (*A, bool) {
	v.ensureOpen()
	p := v.lens.ledger.store.slotPtr(e, v.lens.idA)
	if p == nil {
		return nil, false
	}
	return (*A)(p), true
}

// Close releases the view's borrow. Idempotent.
func (v *LensView1[A]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.lens.ledger.release(v.lens.mask)
}

func (v *LensView1[A]) ensureOpen() {
	if v.closed {
		panic("kariru: lens view used after Close")
	}
}

// ----------------------------------------
// Arity 2
// ----------------------------------------

// Lens2 is a lens over the component types A and B.
type Lens2[A, B any] struct {
	ledger   *lensLedger
	mask     bitmask256
	idA, idB uint8
}

// NewLens2 creates a lens over component types A and B, rooted in a fresh
// ledger.
func NewLens2[A, B any](s *Store) *Lens2[A, B] {
	idA := componentID[A](s)
	idB := componentID[B](s)
	return &Lens2[A, B]{
		ledger: &lensLedger{store: s},
		mask:   mask2(idA, idB),
		idA:    idA,
		idB:    idB,
	}
}

// Query opens a view over the lens's component set, taking the mutable
// borrow of A and B in the family ledger.
func (l *Lens2[A, B]) Query() *LensView2[A, B] {
	l.ledger.acquire(l.mask, "Lens2.Query")
	return &LensView2[A, B]{lens: l}
}

// Entities enumerates the live entities carrying at least A and B.
func (l *Lens2[A, B]) Entities() []Entity {
	return l.ledger.store.entitiesMatching(l.mask)
}

// LensView2 is an open view minted by Lens2.Query.
type LensView2[A, B any] struct {
	lens   *Lens2[A, B]
	closed bool
}

// GetA returns a mutable pointer to the entity's A, or (nil, false).
func (v *LensView2[A, B]) GetA(e Entity) (*A, bool) {
	v.ensureOpen()
	p := v.lens.ledger.store.slotPtr(e, v.lens.idA)
	if p == nil {
		return nil, false
	}
	return (*A)(p), true
}

// GetB returns a mutable pointer to the entity's B, or (nil, false).
func (v *LensView2[A, B]) GetB(e Entity) (*B, bool) {
	v.ensureOpen()
	p := v.lens.ledger.store.slotPtr(e, v.lens.idB)
	if p == nil {
		return nil, false
	}
	return (*B)(p), true
}

// Close releases the view's borrow. Idempotent.
func (v *LensView2[A, B]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.lens.ledger.release(v.lens.mask)
}

func (v *LensView2[A, B]) ensureOpen() {
	if v.closed {
		panic("kariru: lens view used after Close")
	}
}

// ----------------------------------------
// Arity 3
// ----------------------------------------

// Lens3 is a lens over the component types A, B and C.
type Lens3[A, B, C any] struct {
	ledger        *lensLedger
	mask          bitmask256
	idA, idB, idC uint8
}

// NewLens3 creates a lens over component types A, B and C, rooted in a fresh
// ledger.
func NewLens3[A, B, C any](s *Store) *Lens3[A, B, C] {
	idA := componentID[A](s)
	idB := componentID[B](s)
	idC := componentID[C](s)
	return &Lens3[A, B, C]{
		ledger: &lensLedger{store: s},
		mask:   mask3(idA, idB, idC),
		idA:    idA,
		idB:    idB,
		idC:    idC,
	}
}

// Query opens a view over the lens's component set, taking the mutable
// borrow of A, B and C in the family ledger.
func (l *Lens3[A, B, C]) Query() *LensView3[A, B, C] {
	l.ledger.acquire(l.mask, "Lens3.Query")
	return &LensView3[A, B, C]{lens: l}
}

// Entities enumerates the live entities carrying at least A, B and C.
func (l *Lens3[A, B, C]) Entities() []Entity {
	return l.ledger.store.entitiesMatching(l.mask)
}

// LensView3 is an open view minted by Lens3.Query.
type LensView3[A, B, C any] struct {
	lens   *Lens3[A, B, C]
	closed bool
}

// GetA returns a mutable pointer to the entity's A, or (nil, false).
func (v *LensView3[A, B, C]) GetA(e Entity) (*A, bool) {
	v.ensureOpen()
	p := v.lens.ledger.store.slotPtr(e, v.lens.idA)
	if p == nil {
		return nil, false
	}
	return (*A)(p), true
}

// GetB returns a mutable pointer to the entity's B, or (nil, false).
func (v *LensView3[A, B, C]) GetB(e Entity) (*B, bool) {
	v.ensureOpen()
	p := v.lens.ledger.store.slotPtr(e, v.lens.idB)
	if p == nil {
		return nil, false
	}
	return (*B)(p), true
}

// GetC returns a mutable pointer to the entity's C, or (nil, false).
func (v *LensView3[A, B, C]) GetC(e Entity) (*C, bool) {
	v.ensureOpen()
	p := v.lens.ledger.store.slotPtr(e, v.lens.idC)
	if p == nil {
		return nil, false
	}
	return (*C)(p), true
}

// Close releases the view's borrow. Idempotent.
func (v *LensView3[A, B, C]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.lens.ledger.release(v.lens.mask)
}

func (v *LensView3[A, B, C]) ensureOpen() {
	if v.closed {
		panic("kariru: lens view used after Close")
	}
}

// ----------------------------------------
// Narrowing
// ----------------------------------------

// Narrowing derives a lens over a subset of the parent's declared types. The
// component IDs are already resolved, so the Store is not touched, and the
// child shares the parent's ledger: it can never grant wider access than the
// parent, and overlapping use of the two conflicts like any other borrow.

// Narrow2A narrows a Lens2 over (A, B) to a Lens1 over A.
func Narrow2A[A, B any](l *Lens2[A, B]) *Lens1[A] {
	return &Lens1[A]{ledger: l.ledger, mask: mask1(l.idA), idA: l.idA}
}

// Narrow2B narrows a Lens2 over (A, B) to a Lens1 over B.
func Narrow2B[A, B any](l *Lens2[A, B]) *Lens1[B] {
	return &Lens1[B]{ledger: l.ledger, mask: mask1(l.idB), idA: l.idB}
}

// Narrow3A narrows a Lens3 over (A, B, C) to a Lens1 over A.
func Narrow3A[A, B, C any](l *Lens3[A, B, C]) *Lens1[A] {
	return &Lens1[A]{ledger: l.ledger, mask: mask1(l.idA), idA: l.idA}
}

// Narrow3B narrows a Lens3 over (A, B, C) to a Lens1 over B.
func Narrow3B[A, B, C any](l *Lens3[A, B, C]) *Lens1[B] {
	return &Lens1[B]{ledger: l.ledger, mask: mask1(l.idB), idA: l.idB}
}

// Narrow3C narrows a Lens3 over (A, B, C) to a Lens1 over C.
func Narrow3C[A, B, C any](l *Lens3[A, B, C]) *Lens1[C] {
	return &Lens1[C]{ledger: l.ledger, mask: mask1(l.idC), idA: l.idC}
}

// Narrow3AB narrows a Lens3 over (A, B, C) to a Lens2 over (A, B).
func Narrow3AB[A, B, C any](l *Lens3[A, B, C]) *Lens2[A, B] {
	return &Lens2[A, B]{ledger: l.ledger, mask: mask2(l.idA, l.idB), idA: l.idA, idB: l.idB}
}

// Narrow3AC narrows a Lens3 over (A, B, C) to a Lens2 over (A, C).
func Narrow3AC[A, B, C any](l *Lens3[A, B, C]) *Lens2[A, C] {
	return &Lens2[A, C]{ledger: l.ledger, mask: mask2(l.idA, l.idC), idA: l.idA, idB: l.idC}
}

// Narrow3BC narrows a Lens3 over (A, B, C) to a Lens2 over (B, C).
func Narrow3BC[A, B, C any](l *Lens3[A, B, C]) *Lens2[B, C] {
	return &Lens2[B, C]{ledger: l.ledger, mask: mask2(l.idB, l.idC), idA: l.idB, idB: l.idC}
}
