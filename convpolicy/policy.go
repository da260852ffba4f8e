// Package convpolicy holds the process-wide conversion policy switch
// that governs how aggressively the accessor emitter inserts cross-type
// conversions (spec.md §4.5).
package convpolicy

import "sync/atomic"

// Policy selects how the emitter converts between mismatched source and
// destination types.
type Policy int32

const (
	// Strict emits a direct cast from the chosen convertType to the
	// attribute's underlying type. No widening/narrowing helpers.
	Strict Policy = iota
	// Automatic additionally recognizes a fixed set of known coercions
	// (string<->Guid, numeric widening/narrowing) before falling back
	// to a direct cast.
	Automatic
)

func (p Policy) String() string {
	if p == Automatic {
		return "automatic"
	}
	return "strict"
}

var current atomic.Int32

// Set changes the process-wide policy. Plans already built before this
// call keep using the policy sampled at their own build time — this is
// a documented consequence of compile-once semantics (spec.md §3
// Ownership, §9 Design Notes), not a bug.
func Set(p Policy) {
	current.Store(int32(p))
}

// Current returns the process-wide policy in effect right now.
func Current() Policy {
	return Policy(current.Load())
}
