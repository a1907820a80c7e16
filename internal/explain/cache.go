package explain

// InvalidationPolicy decides when an incoming array-shaped row replaces
// the cached one. Scalar rows always invalidate on value inequality.
type InvalidationPolicy int

const (
	// InvalidateOnAnyChange regenerates the target sequence when any
	// element of an array row differs from the cached row. This is the
	// default.
	InvalidateOnAnyChange InvalidationPolicy = iota
	// InvalidateOnFullChange regenerates only when every element
	// differs. It reproduces the historical behavior of upstream
	// explainers, which under-invalidates on partial changes; keep it
	// only when byte-compatibility with attributions produced by those
	// versions matters.
	InvalidateOnFullChange
)

// rowCache holds the state scoped to the row currently being explained:
// the original input, its target token ids and the decoded output names.
// One cache belongs to exactly one scorer and must not be shared across
// concurrent explanation sessions.
type rowCache struct {
	policy InvalidationPolicy

	valid       bool
	row         Input
	targetIDs   []int
	outputNames []string
}

// stale reports whether the incoming row differs from the cached one and
// the target sequence must be regenerated.
func (c *rowCache) stale(in Input) bool {
	if !c.valid {
		return true
	}
	if c.row.IsArray() != in.IsArray() {
		return true
	}
	if !in.IsArray() {
		return c.row.Text != in.Text || c.row.Pair != in.Pair
	}
	if len(c.row.Segments) != len(in.Segments) {
		return true
	}
	switch c.policy {
	case InvalidateOnFullChange:
		for i := range in.Segments {
			if c.row.Segments[i] == in.Segments[i] {
				return false
			}
		}
		return len(in.Segments) > 0
	default:
		for i := range in.Segments {
			if c.row.Segments[i] != in.Segments[i] {
				return true
			}
		}
		return c.row.Pair != in.Pair
	}
}

// put atomically replaces the cached row and its derived state.
func (c *rowCache) put(row Input, targetIDs []int, outputNames []string) {
	c.row = row
	c.targetIDs = targetIDs
	c.outputNames = outputNames
	c.valid = true
}
