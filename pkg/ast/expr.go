package ast

// ---------- Literals and references ----------

// ValueKind classifies a literal value.
type ValueKind int

// ValueKind constants.
const (
	KindNull ValueKind = iota
	KindInt
	KindDecimal
	KindFloat
	KindString
	KindHex
	KindBit
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindHex:
		return "hex"
	case KindBit:
		return "bit"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ValueExpr is a literal. Value holds uint64 for KindInt, the literal text for
// KindDecimal, float64 for KindFloat, string for KindString, []byte for
// KindHex and KindBit, bool for KindBool and nil for KindNull.
type ValueExpr struct {
	Kind      ValueKind
	Value     any
	Charset   string
	Collation string
}

// ColumnName is a 1-, 2- or 3-part column reference.
type ColumnName struct {
	Schema string
	Table  string
	Name   string
}

// ColumnNameExpr is a column reference used as an expression.
type ColumnNameExpr struct {
	Name *ColumnName
}

// VariableExpr is a user (@x) or system (@@x) variable, optionally assigned.
type VariableExpr struct {
	Name          string
	IsGlobal      bool
	IsSystem      bool
	ExplicitScope bool
	// Value is set for @x := expr.
	Value ExprNode
}

// ParamMarkerExpr is a ? placeholder. Order counts from 0, left to right.
type ParamMarkerExpr struct {
	Order int
}

// ---------- Operations ----------

// BinaryOperationExpr is L Op R.
type BinaryOperationExpr struct {
	Op Op
	L  ExprNode
	R  ExprNode
}

// UnaryOperationExpr is Op V.
type UnaryOperationExpr struct {
	Op Op
	V  ExprNode
}

// ParenthesesExpr is a parenthesised expression.
type ParenthesesExpr struct {
	Expr ExprNode
}

// RowExpr is a row constructor, (a, b) or ROW(a, b).
type RowExpr struct {
	Values []ExprNode
}

// SetCollationExpr is expr COLLATE name.
type SetCollationExpr struct {
	Expr    ExprNode
	Collate string
}

// IntervalExpr is INTERVAL value unit.
type IntervalExpr struct {
	Value ExprNode
	Unit  string
}

// ---------- Predicates ----------

// IsNullExpr is expr IS [NOT] NULL. IS [NOT] UNKNOWN parses to the same node.
type IsNullExpr struct {
	Expr ExprNode
	Not  bool
}

// IsTruthExpr is expr IS [NOT] TRUE|FALSE.
type IsTruthExpr struct {
	Expr ExprNode
	Not  bool
	True bool
}

// BetweenExpr is expr [NOT] BETWEEN left AND right.
type BetweenExpr struct {
	Expr  ExprNode
	Left  ExprNode
	Right ExprNode
	Not   bool
}

// PatternInExpr is expr [NOT] IN (list) or expr [NOT] IN (subquery).
type PatternInExpr struct {
	Expr ExprNode
	List []ExprNode
	Sel  *SubqueryExpr
	Not  bool
}

// PatternLikeExpr is expr [NOT] LIKE pattern [ESCAPE escape].
type PatternLikeExpr struct {
	Expr    ExprNode
	Pattern ExprNode
	Escape  ExprNode
	Not     bool
}

// PatternRegexpExpr is expr [NOT] REGEXP|RLIKE pattern.
type PatternRegexpExpr struct {
	Expr    ExprNode
	Pattern ExprNode
	Not     bool
}

// ---------- Subqueries ----------

// SubqueryExpr wraps a query used as an expression or derived table.
type SubqueryExpr struct {
	Query ResultSetNode
}

// ExistsSubqueryExpr is [NOT] EXISTS (subquery).
type ExistsSubqueryExpr struct {
	Sel *SubqueryExpr
	Not bool
}

// CompareSubqueryExpr is L op ANY|SOME|ALL (subquery).
type CompareSubqueryExpr struct {
	L   ExprNode
	Op  Op
	R   *SubqueryExpr
	All bool
}

// ---------- Functions ----------

// Function names given to typed literals such as DATE '2024-01-01'.
const (
	DateLiteral      = "dateliteral"
	TimeLiteral      = "timeliteral"
	TimestampLiteral = "timestampliteral"
)

// FuncCallExpr is a scalar function call. FnName keeps the written spelling.
type FuncCallExpr struct {
	FnName string
	Args   []ExprNode
}

// AggregateFuncExpr is an aggregate call without OVER. F is lower case.
type AggregateFuncExpr struct {
	F        string
	Args     []ExprNode
	Distinct bool
	// Order and Separator are only used by GROUP_CONCAT.
	Order     *OrderByClause
	Separator *string
}

// WindowFuncExpr is a window function or an aggregate with OVER.
type WindowFuncExpr struct {
	Name     string
	Args     []ExprNode
	Distinct bool
	Spec     WindowSpec
}

// CastFunctionType tells which syntax produced a FuncCastExpr.
type CastFunctionType int

// Cast syntaxes.
const (
	CastFunction CastFunctionType = iota + 1
	CastConvertFunction
	CastBinaryOperator
)

// UnspecifiedLength marks an absent length or scale in a FieldType.
const UnspecifiedLength = -1

// FieldType is the target type of CAST or CONVERT.
type FieldType struct {
	Tp      string
	Flen    int
	Decimal int
	Charset string
}

// FuncCastExpr is CAST(x AS t), CONVERT(x, t) or BINARY x.
type FuncCastExpr struct {
	Expr         ExprNode
	Tp           *FieldType
	FunctionType CastFunctionType
}

// CaseExpr is CASE [value] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Value       ExprNode
	WhenClauses []*WhenClause
	ElseClause  ExprNode
}

// WhenClause is one WHEN ... THEN ... arm.
type WhenClause struct {
	Expr   ExprNode
	Result ExprNode
}

func (*ValueExpr) node()           {}
func (*ColumnNameExpr) node()      {}
func (*VariableExpr) node()        {}
func (*ParamMarkerExpr) node()     {}
func (*BinaryOperationExpr) node() {}
func (*UnaryOperationExpr) node()  {}
func (*ParenthesesExpr) node()     {}
func (*RowExpr) node()             {}
func (*SetCollationExpr) node()    {}
func (*IntervalExpr) node()        {}
func (*IsNullExpr) node()          {}
func (*IsTruthExpr) node()         {}
func (*BetweenExpr) node()         {}
func (*PatternInExpr) node()       {}
func (*PatternLikeExpr) node()     {}
func (*PatternRegexpExpr) node()   {}
func (*SubqueryExpr) node()        {}
func (*ExistsSubqueryExpr) node()  {}
func (*CompareSubqueryExpr) node() {}
func (*FuncCallExpr) node()        {}
func (*AggregateFuncExpr) node()   {}
func (*WindowFuncExpr) node()      {}
func (*FuncCastExpr) node()        {}
func (*CaseExpr) node()            {}
func (*WhenClause) node()          {}
func (*ColumnName) node()          {}

func (*ValueExpr) exprNode()           {}
func (*ColumnNameExpr) exprNode()      {}
func (*VariableExpr) exprNode()        {}
func (*ParamMarkerExpr) exprNode()     {}
func (*BinaryOperationExpr) exprNode() {}
func (*UnaryOperationExpr) exprNode()  {}
func (*ParenthesesExpr) exprNode()     {}
func (*RowExpr) exprNode()             {}
func (*SetCollationExpr) exprNode()    {}
func (*IntervalExpr) exprNode()        {}
func (*IsNullExpr) exprNode()          {}
func (*IsTruthExpr) exprNode()         {}
func (*BetweenExpr) exprNode()         {}
func (*PatternInExpr) exprNode()       {}
func (*PatternLikeExpr) exprNode()     {}
func (*PatternRegexpExpr) exprNode()   {}
func (*SubqueryExpr) exprNode()        {}
func (*ExistsSubqueryExpr) exprNode()  {}
func (*CompareSubqueryExpr) exprNode() {}
func (*FuncCallExpr) exprNode()        {}
func (*AggregateFuncExpr) exprNode()   {}
func (*WindowFuncExpr) exprNode()      {}
func (*FuncCastExpr) exprNode()        {}
func (*CaseExpr) exprNode()            {}
