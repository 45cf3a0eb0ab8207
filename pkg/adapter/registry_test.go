package adapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"mysql"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "fake_db")
	assert.Contains(t, msg, "mysql")
	assert.Contains(t, msg, "sqlfront.yaml")
}

func TestRegister(t *testing.T) {
	Register("test_adapter_internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"))

	factory, ok := Get("test_adapter_internal")
	assert.True(t, ok)
	assert.NotNil(t, factory)
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestNewAdapter(t *testing.T) {
	Register("test_adapter_factory", func(_ *slog.Logger) Adapter { return &stubAdapter{} })

	tests := []struct {
		name    string
		typ     string
		errMsg  string
		unknown bool
	}{
		{name: "empty type", typ: "", errMsg: "adapter type not specified"},
		{name: "unknown type", typ: "oracle", unknown: true},
		{name: "registered", typ: "test_adapter_factory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adp, err := NewAdapter(Config{Type: tt.typ}, nil)
			switch {
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			case tt.unknown:
				var unknownErr *UnknownAdapterError
				require.ErrorAs(t, err, &unknownErr)
				assert.Equal(t, tt.typ, unknownErr.Type)
				assert.Contains(t, unknownErr.Available, "test_adapter_factory")
			default:
				require.NoError(t, err)
				assert.IsType(t, &stubAdapter{}, adp)
			}
		})
	}
}

func TestListAdaptersSorted(t *testing.T) {
	Register("zz_adapter", func(_ *slog.Logger) Adapter { return nil })
	Register("aa_adapter", func(_ *slog.Logger) Adapter { return nil })

	names := ListAdapters()
	assert.IsNonDecreasing(t, names)
}

func TestOpen(t *testing.T) {
	ok := &stubAdapter{}
	Register("test_open_ok", func(_ *slog.Logger) Adapter { return ok })
	failing := &stubAdapter{connectErr: errors.New("refused")}
	Register("test_open_fail", func(_ *slog.Logger) Adapter { return failing })

	adp, err := Open(context.Background(), Config{Type: "test_open_ok"}, nil)
	require.NoError(t, err)
	assert.Same(t, ok, adp)
	assert.False(t, ok.closed)

	_, err = Open(context.Background(), Config{Type: "test_open_fail"}, nil)
	require.Error(t, err)
	assert.Equal(t, "connect test_open_fail: refused", err.Error())
	assert.True(t, failing.closed, "a failed connect releases the adapter")

	_, err = Open(context.Background(), Config{Type: "nope"}, nil)
	var unknownErr *UnknownAdapterError
	assert.ErrorAs(t, err, &unknownErr)
}
