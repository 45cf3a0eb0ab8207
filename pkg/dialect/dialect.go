// Package dialect provides SQL dialect configuration: SQL mode flags, operator
// binding tables and function classification.
//
// A Dialect is immutable once built. The operator tables it hands out are pure
// data consumed by the expression engine; the grammar decides fixity, the
// table decides binding power and associativity.
package dialect

import "golang.org/x/text/cases"

// FuncKind classifies a function name for the grammar.
type FuncKind int

// Function kinds.
const (
	FuncScalar FuncKind = iota
	FuncAggregate
	FuncWindow
	FuncNiladic // callable without parentheses, e.g. CURRENT_TIMESTAMP
)

func (k FuncKind) String() string {
	switch k {
	case FuncScalar:
		return "scalar"
	case FuncAggregate:
		return "aggregate"
	case FuncWindow:
		return "window"
	case FuncNiladic:
		return "niladic"
	default:
		return "unknown"
	}
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name string

	// DefaultMode is OR-ed into the mode requested by the caller.
	DefaultMode SQLMode

	DefaultCharset   string
	DefaultCollation string

	aggregates map[string]struct{}
	windows    map[string]struct{}
	niladic    map[string]struct{}

	tables map[SQLMode]*OperatorTable
}

// NormalizeName case-folds a function or keyword name. A Caser is stateful,
// so each call builds its own.
func (d *Dialect) NormalizeName(name string) string {
	return cases.Fold().String(name)
}

// IsAggregate returns true if the function is an aggregate.
func (d *Dialect) IsAggregate(name string) bool {
	_, ok := d.aggregates[d.NormalizeName(name)]
	return ok
}

// IsWindow returns true if the function is window-only and requires OVER.
func (d *Dialect) IsWindow(name string) bool {
	_, ok := d.windows[d.NormalizeName(name)]
	return ok
}

// IsNiladic returns true if the function may be called without parentheses.
func (d *Dialect) IsNiladic(name string) bool {
	_, ok := d.niladic[d.NormalizeName(name)]
	return ok
}

// FunctionKind classifies a function name. Window wins over aggregate.
func (d *Dialect) FunctionKind(name string) FuncKind {
	switch {
	case d.IsWindow(name):
		return FuncWindow
	case d.IsAggregate(name):
		return FuncAggregate
	case d.IsNiladic(name):
		return FuncNiladic
	default:
		return FuncScalar
	}
}

// EffectiveMode combines the dialect default with a requested mode.
func (d *Dialect) EffectiveMode(requested SQLMode) SQLMode {
	return d.DefaultMode | requested
}

// Operators returns the binding table for the given SQL mode.
func (d *Dialect) Operators(mode SQLMode) *OperatorTable {
	key := d.EffectiveMode(mode) & operatorModes
	if t, ok := d.tables[key]; ok {
		return t
	}
	return buildOperatorTable(key)
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:             name,
			DefaultCharset:   "utf8mb4",
			DefaultCollation: "utf8mb4_0900_ai_ci",
			aggregates:       make(map[string]struct{}),
			windows:          make(map[string]struct{}),
			niladic:          make(map[string]struct{}),
		},
	}
}

// Mode sets the SQL mode implied by the dialect.
func (b *Builder) Mode(m SQLMode) *Builder {
	b.dialect.DefaultMode = m
	return b
}

// Charset sets the default connection charset and collation.
func (b *Builder) Charset(cs, collation string) *Builder {
	b.dialect.DefaultCharset = cs
	b.dialect.DefaultCollation = collation
	return b
}

// Aggregates adds aggregate functions to the dialect.
func (b *Builder) Aggregates(funcs ...string) *Builder {
	for _, f := range funcs {
		b.dialect.aggregates[b.dialect.NormalizeName(f)] = struct{}{}
	}
	return b
}

// Windows adds window-only functions to the dialect.
func (b *Builder) Windows(funcs ...string) *Builder {
	for _, f := range funcs {
		b.dialect.windows[b.dialect.NormalizeName(f)] = struct{}{}
	}
	return b
}

// Niladic adds functions that may be called without parentheses.
func (b *Builder) Niladic(funcs ...string) *Builder {
	for _, f := range funcs {
		b.dialect.niladic[b.dialect.NormalizeName(f)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect with its operator tables precomputed.
func (b *Builder) Build() *Dialect {
	d := b.dialect
	d.tables = make(map[SQLMode]*OperatorTable)
	for _, m := range []SQLMode{0, ModePipesAsConcat, ModeHighNotPrecedence, ModePipesAsConcat | ModeHighNotPrecedence} {
		key := d.EffectiveMode(m) & operatorModes
		d.tables[key] = buildOperatorTable(key)
	}
	return d
}
