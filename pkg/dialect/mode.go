package dialect

import (
	"fmt"
	"strings"
)

// SQLMode is the set of server SQL mode flags that change how text parses.
type SQLMode uint32

// SQL mode flags.
const (
	ModePipesAsConcat SQLMode = 1 << iota
	ModeHighNotPrecedence
	ModeANSIQuotes
	ModeNoBackslashEscapes
)

// ModeANSI is the parse-relevant part of MySQL's ANSI combination mode.
const ModeANSI = ModePipesAsConcat | ModeANSIQuotes

// operatorModes are the flags that change operator binding.
const operatorModes = ModePipesAsConcat | ModeHighNotPrecedence

var modeNames = []struct {
	flag SQLMode
	name string
}{
	{ModePipesAsConcat, "PIPES_AS_CONCAT"},
	{ModeHighNotPrecedence, "HIGH_NOT_PRECEDENCE"},
	{ModeANSIQuotes, "ANSI_QUOTES"},
	{ModeNoBackslashEscapes, "NO_BACKSLASH_ESCAPES"},
}

// Server modes that are accepted but do not affect parsing.
var inertModes = map[string]struct{}{
	"ALLOW_INVALID_DATES":        {},
	"ERROR_FOR_DIVISION_BY_ZERO": {},
	"IGNORE_SPACE":               {},
	"NO_AUTO_VALUE_ON_ZERO":      {},
	"NO_DIR_IN_CREATE":           {},
	"NO_ENGINE_SUBSTITUTION":     {},
	"NO_UNSIGNED_SUBTRACTION":    {},
	"NO_ZERO_DATE":               {},
	"NO_ZERO_IN_DATE":            {},
	"ONLY_FULL_GROUP_BY":         {},
	"PAD_CHAR_TO_FULL_LENGTH":    {},
	"REAL_AS_FLOAT":              {},
	"STRICT_ALL_TABLES":          {},
	"STRICT_TRANS_TABLES":        {},
	"TIME_TRUNCATE_FRACTIONAL":   {},
	"TRADITIONAL":                {},
}

// Has reports whether all flags in f are set.
func (m SQLMode) Has(f SQLMode) bool {
	return m&f == f
}

func (m SQLMode) String() string {
	var parts []string
	for _, mn := range modeNames {
		if m.Has(mn.flag) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseSQLMode parses a comma-separated sql_mode value such as
// "ANSI_QUOTES,STRICT_TRANS_TABLES". Names are case-insensitive.
func ParseSQLMode(s string) (SQLMode, error) {
	var m SQLMode
	for _, part := range strings.Split(s, ",") {
		name := strings.ToUpper(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if name == "ANSI" {
			m |= ModeANSI
			continue
		}
		found := false
		for _, mn := range modeNames {
			if mn.name == name {
				m |= mn.flag
				found = true
				break
			}
		}
		if found {
			continue
		}
		if _, ok := inertModes[name]; !ok {
			return 0, fmt.Errorf("unknown sql mode %q", part)
		}
	}
	return m, nil
}
