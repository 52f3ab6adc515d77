package tagd

// Flags alter engine behavior for a session.
type Flags uint

const (
	// NoPosCast keeps POSUnknown on new tags instead of inheriting the parent's POS.
	NoPosCast Flags = 1 << iota
	// NoTransformReferents returns canonical ids on reads.
	NoTransformReferents
	// NoNotFoundError makes a query with no matches succeed with an empty set.
	NoNotFoundError
	// IgnoreDuplicates makes duplicate puts succeed.
	IgnoreDuplicates
)

// Has reports whether every bit of g is set.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}
