package ast

// WindowSpec is a window definition, either named in a WINDOW clause or
// inline after OVER.
type WindowSpec struct {
	// Name is set for WINDOW name AS (...).
	Name string
	// Ref names the window this one builds on, as in OVER (w ORDER BY x).
	Ref         string
	PartitionBy *PartitionByClause
	OrderBy     *OrderByClause
	Frame       *FrameClause
	// OnlyAlias is true for OVER w without parentheses.
	OnlyAlias bool
}

// PartitionByClause is PARTITION BY items.
type PartitionByClause struct {
	Items []*ByItem
}

// FrameType is ROWS, RANGE or GROUPS.
type FrameType int

// Frame types.
const (
	Rows FrameType = iota + 1
	Ranges
	Groups
)

func (f FrameType) String() string {
	switch f {
	case Rows:
		return "ROWS"
	case Ranges:
		return "RANGE"
	case Groups:
		return "GROUPS"
	default:
		return ""
	}
}

// BoundType is the direction of a frame bound.
type BoundType int

// Bound types.
const (
	Following BoundType = iota + 1
	Preceding
	CurrentRow
)

func (b BoundType) String() string {
	switch b {
	case Following:
		return "FOLLOWING"
	case Preceding:
		return "PRECEDING"
	case CurrentRow:
		return "CURRENT ROW"
	default:
		return ""
	}
}

// FrameBound is one end of a frame. Expr is nil for UNBOUNDED and
// CURRENT ROW; it may be an *IntervalExpr for RANGE frames.
type FrameBound struct {
	Type      BoundType
	UnBounded bool
	Expr      ExprNode
}

// FrameExtent is the start and end of a frame. For the single-bound form
// End is CURRENT ROW.
type FrameExtent struct {
	Start FrameBound
	End   FrameBound
}

// FrameClause is the frame of a window.
type FrameClause struct {
	Type   FrameType
	Extent FrameExtent
}

func (*WindowSpec) node()        {}
func (*PartitionByClause) node() {}
func (*FrameClause) node()       {}
