package pratt_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlfront/pkg/pratt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calc evaluates integer arithmetic directly from string items.
type calc struct{}

func (calc) Query(item string) (pratt.Affix, error) {
	switch item {
	case "=":
		return pratt.InfixOp(1, pratt.Neither), nil
	case "+", "-":
		return pratt.InfixOp(2, pratt.Left), nil
	case "*":
		return pratt.InfixOp(3, pratt.Left), nil
	case "^":
		return pratt.InfixOp(4, pratt.Right), nil
	case "neg":
		return pratt.PrefixOp(5), nil
	case "!":
		return pratt.PostfixOp(6), nil
	default:
		return pratt.Operand(), nil
	}
}

func (calc) Primary(item string) (int, error) {
	return strconv.Atoi(item)
}

func (calc) Infix(lhs int, op string, rhs int) (int, error) {
	switch op {
	case "+":
		return lhs + rhs, nil
	case "-":
		return lhs - rhs, nil
	case "*":
		return lhs * rhs, nil
	case "=":
		if lhs == rhs {
			return 1, nil
		}
		return 0, nil
	default:
		out := 1
		for i := 0; i < rhs; i++ {
			out *= lhs
		}
		return out, nil
	}
}

func (calc) Prefix(_ string, rhs int) (int, error) {
	return -rhs, nil
}

func (calc) Postfix(lhs int, _ string) (int, error) {
	if lhs > 10 {
		return 0, fmt.Errorf("factorial operand too large")
	}
	out := 1
	for i := 2; i <= lhs; i++ {
		out *= i
	}
	return out, nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     int
		consumed int
	}{
		{name: "single operand", input: "7", want: 7, consumed: 1},
		{name: "precedence", input: "1 + 2 * 3", want: 7, consumed: 5},
		{name: "left associative", input: "1 - 2 - 3", want: -4, consumed: 5},
		{name: "right associative", input: "2 ^ 3 ^ 2", want: 512, consumed: 5},
		{name: "prefix binds tighter than infix", input: "neg 2 * 3", want: -6, consumed: 4},
		{name: "postfix", input: "3 ! + 1", want: 7, consumed: 4},
		{name: "non associative stops chaining", input: "1 = 1 = 1", want: 1, consumed: 3},
		{name: "trailing operand is left unconsumed", input: "1 + 2 5", want: 3, consumed: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, consumed, err := pratt.Parse[string, int](calc{}, strings.Fields(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.consumed, consumed)
		})
	}
}

func TestParseAbove(t *testing.T) {
	out, consumed, err := pratt.ParseAbove[string, int](calc{}, strings.Fields("4 * 2 + 1"), 2)
	require.NoError(t, err)
	assert.Equal(t, 8, out)
	assert.Equal(t, 3, consumed)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kind      pratt.ErrorKind
		message   string
		blame     int
		blameItem bool
	}{
		{name: "empty input", input: "", kind: pratt.EmptyInput, message: "expecting an operand"},
		{name: "missing rhs", input: "1 +", kind: pratt.EmptyInput, message: "expecting an operand"},
		{name: "prefix without operand", input: "neg", kind: pratt.EmptyInput, message: "expecting an operand"},
		{name: "infix in head position", input: "* 1", kind: pratt.UnexpectedInfix, message: "missing lhs or rhs for the binary operator", blame: 0, blameItem: true},
		{name: "infix after infix", input: "1 + * 2", kind: pratt.UnexpectedInfix, message: "missing lhs or rhs for the binary operator", blame: 2, blameItem: true},
		{name: "postfix in head position", input: "! 1", kind: pratt.UnexpectedPostfix, message: "unable to parse the postfix operator", blame: 0, blameItem: true},
		{name: "user error from primary", input: "1 + x", kind: pratt.UserError, message: `strconv.Atoi: parsing "x": invalid syntax`, blame: 2, blameItem: true},
		{name: "user error from postfix", input: "11 !", kind: pratt.UserError, message: "factorial operand too large", blame: 1, blameItem: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pratt.Parse[string, int](calc{}, strings.Fields(tt.input))
			require.Error(t, err)

			var perr *pratt.Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.message, perr.Error())

			blame, ok := perr.Blame()
			assert.Equal(t, tt.blameItem, ok)
			if tt.blameItem {
				assert.Equal(t, tt.blame, blame)
			}
		})
	}
}
