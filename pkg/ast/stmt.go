package ast

// ---------- SELECT ----------

// Priority is the HIGH_PRIORITY / LOW_PRIORITY / DELAYED select option.
type Priority int

// Priority constants.
const (
	NoPriority Priority = iota
	LowPriority
	HighPriority
	DelayedPriority
)

func (p Priority) String() string {
	switch p {
	case LowPriority:
		return "LOW_PRIORITY"
	case HighPriority:
		return "HIGH_PRIORITY"
	case DelayedPriority:
		return "DELAYED"
	default:
		return ""
	}
}

// PlaceholderHintName is the name recorded for every optimizer hint region.
// Hint contents are delimited but not decoded.
const PlaceholderHintName = "placeholder"

// TableOptimizerHint is one optimizer hint from a /*+ ... */ region.
type TableOptimizerHint struct {
	HintName string
}

// SelectStmtOpts are the modifiers between SELECT and the field list.
type SelectStmtOpts struct {
	Distinct        bool
	ExplicitAll     bool
	SQLCache        bool
	SQLSmallResult  bool
	SQLBigResult    bool
	SQLBufferResult bool
	CalcFoundRows   bool
	StraightJoin    bool
	Priority        Priority
	TableHints      []*TableOptimizerHint
}

// DefaultSelectStmtOpts returns options with the query cache enabled.
func DefaultSelectStmtOpts() *SelectStmtOpts {
	return &SelectStmtOpts{SQLCache: true}
}

// WildCardField is *, t.* or s.t.*.
type WildCardField struct {
	Schema string
	Table  string
}

// SelectField is one entry of the select list. Exactly one of WildCard and
// Expr is set.
type SelectField struct {
	WildCard *WildCardField
	Expr     ExprNode
	AsName   string
}

// FieldList is the select list.
type FieldList struct {
	Fields []*SelectField
}

// ByItem is one ORDER BY or GROUP BY item.
type ByItem struct {
	Expr ExprNode
	Desc bool
}

// GroupByClause is GROUP BY items [WITH ROLLUP].
type GroupByClause struct {
	Items  []*ByItem
	Rollup bool
}

// HavingClause is HAVING expr.
type HavingClause struct {
	Expr ExprNode
}

// OrderByClause is ORDER BY items.
type OrderByClause struct {
	Items []*ByItem
}

// Limit is LIMIT count [OFFSET offset]. Offset is nil when absent.
type Limit struct {
	Count  ExprNode
	Offset ExprNode
}

// SelectStmt is a single SELECT query block.
type SelectStmt struct {
	*SelectStmtOpts

	Distinct    bool
	Fields      *FieldList
	From        *TableRefsClause
	Where       ExprNode
	GroupBy     *GroupByClause
	Having      *HavingClause
	WindowSpecs []WindowSpec
	OrderBy     *OrderByClause
	Limit       *Limit
	With        *WithClause

	// AfterSetOperator is the set operator written immediately before this
	// block, if any.
	AfterSetOperator *SetOprType
	IsInBraces       bool
}

// ---------- Set operations ----------

// SetOprType is UNION, EXCEPT or INTERSECT, with or without ALL.
type SetOprType int

// Set operators.
const (
	Union SetOprType = iota + 1
	UnionAll
	Except
	ExceptAll
	Intersect
	IntersectAll
)

func (s SetOprType) String() string {
	switch s {
	case Union:
		return "UNION"
	case UnionAll:
		return "UNION ALL"
	case Except:
		return "EXCEPT"
	case ExceptAll:
		return "EXCEPT ALL"
	case Intersect:
		return "INTERSECT"
	case IntersectAll:
		return "INTERSECT ALL"
	default:
		return ""
	}
}

// SetOprSelectList is the flattened operand list of a set operation. Each
// element is a *SelectStmt or a nested *SetOprSelectList.
type SetOprSelectList struct {
	AfterSetOperator *SetOprType
	With             *WithClause
	Selects          []Node
	OrderBy          *OrderByClause
	Limit            *Limit
}

// SetOprStmt is a UNION / EXCEPT / INTERSECT statement.
type SetOprStmt struct {
	With       *WithClause
	SelectList *SetOprSelectList
	OrderBy    *OrderByClause
	Limit      *Limit
	IsInBraces bool
}

// ---------- WITH ----------

// WithClause is WITH [RECURSIVE] cte, ...
type WithClause struct {
	IsRecursive bool
	CTEs        []*CommonTableExpression
}

// CommonTableExpression is name [(cols)] AS (query).
type CommonTableExpression struct {
	Name        string
	ColNameList []string
	Query       *SubqueryExpr
	IsRecursive bool
}

func (*SelectStmt) node()            {}
func (*SetOprStmt) node()            {}
func (*SetOprSelectList) node()      {}
func (*WithClause) node()            {}
func (*CommonTableExpression) node() {}
func (*FieldList) node()             {}
func (*SelectField) node()           {}
func (*ByItem) node()                {}
func (*GroupByClause) node()         {}
func (*HavingClause) node()          {}
func (*OrderByClause) node()         {}
func (*Limit) node()                 {}
func (*TableOptimizerHint) node()    {}

func (*SelectStmt) stmtNode() {}
func (*SetOprStmt) stmtNode() {}

func (*SelectStmt) resultSetNode() {}
func (*SetOprStmt) resultSetNode() {}
