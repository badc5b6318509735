package item

// Effective lock state is the OR of the central (item) flag and the branch
// (outlet) flag. Plain predicates; the flags are persisted business rules,
// not concurrency primitives.

// EffectivePriceLocked reports whether price mutations are blocked for the
// given item at the given outlet.
func EffectivePriceLocked(it Item, io ItemOutlet) bool {
	return it.PriceLocked || io.PriceLocked
}

// EffectiveStatusLocked reports whether status mutations are blocked for the
// given item at the given outlet.
func EffectiveStatusLocked(it Item, io ItemOutlet) bool {
	return it.StatusLocked || io.StatusLocked
}

// ApplyCentralStatusLock applies a central status lock change to an outlet
// instance. Locking forces the outlet flag on and disables the item in the
// outlet. Unlocking only drops the outlet flag: reactivation is an explicit
// separate action, never automatic.
func ApplyCentralStatusLock(io *ItemOutlet, locked bool) {
	if locked {
		io.StatusLocked = true
		io.IsActiveInOutlet = false
		return
	}
	io.StatusLocked = false
}

// ApplyCentralPriceLock mirrors the central price lock onto an outlet
// instance.
func ApplyCentralPriceLock(io *ItemOutlet, locked bool) {
	io.PriceLocked = locked
}
