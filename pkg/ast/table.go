package ast

// JoinType is the kind of a join.
type JoinType int

// Join types. A plain comma or [INNER|CROSS] JOIN is CrossJoin.
const (
	CrossJoin JoinType = iota + 1
	LeftJoin
	RightJoin
)

func (j JoinType) String() string {
	switch j {
	case CrossJoin:
		return "CROSS JOIN"
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	default:
		return ""
	}
}

// TableName is a 1- or 2-part table name.
type TableName struct {
	Schema string
	Name   string
}

// TableSource is a table, derived table or parenthesised join with an
// optional alias.
type TableSource struct {
	Source ResultSetNode
	AsName string
}

// OnCondition is the ON clause of a join.
type OnCondition struct {
	Expr ExprNode
}

// Join joins Left and Right. A single table is a Join with a nil Right.
type Join struct {
	Left         ResultSetNode
	Right        ResultSetNode
	Tp           JoinType
	On           *OnCondition
	Using        []*ColumnName
	NaturalJoin  bool
	StraightJoin bool
}

// TableRefsClause is the FROM clause.
type TableRefsClause struct {
	TableRefs *Join
}

func (*TableName) node()       {}
func (*TableSource) node()     {}
func (*OnCondition) node()     {}
func (*Join) node()            {}
func (*TableRefsClause) node() {}

func (*TableName) resultSetNode()   {}
func (*TableSource) resultSetNode() {}
func (*Join) resultSetNode()        {}
