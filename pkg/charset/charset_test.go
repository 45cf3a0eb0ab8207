package charset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCollationFor(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		want    string
		wantErr bool
	}{
		{name: "utf8mb4", charset: "utf8mb4", want: "utf8mb4_0900_ai_ci"},
		{name: "case insensitive", charset: "LATIN1", want: "latin1_swedish_ci"},
		{name: "utf8 alias", charset: "utf8", want: "utf8mb3_general_ci"},
		{name: "binary", charset: "binary", want: "binary"},
		{name: "unknown", charset: "klingon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultCollationFor(tt.charset)
			if tt.wantErr {
				var unsupported *UnsupportedCharsetError
				require.True(t, errors.As(err, &unsupported))
				assert.Equal(t, tt.charset, unsupported.Name)
				assert.Equal(t, "Unsupported character introducer: 'klingon'", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePair(t *testing.T) {
	assert.NoError(t, ValidatePair("utf8mb4", "utf8mb4_bin"))
	assert.NoError(t, ValidatePair("utf8mb4", ""))
	assert.NoError(t, ValidatePair("utf8", "utf8_general_ci"))

	err := ValidatePair("latin1", "utf8mb4_bin")
	var mismatch *CollationMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "COLLATION 'utf8mb4_bin' is not valid for CHARACTER SET 'latin1'", err.Error())

	err = ValidatePair("utf8mb4", "nope_ci")
	var unknown *UnknownCollationError
	assert.True(t, errors.As(err, &unknown))
}

func TestCanEncode(t *testing.T) {
	tests := []struct {
		charset string
		text    string
		want    bool
	}{
		{"ascii", "plain", true},
		{"ascii", "café", false},
		{"latin1", "café", true},
		{"latin1", "日本", false},
		{"sjis", "日本", true},
		{"gbk", "中文", true},
		{"greek", "αβγ", true},
		{"utf8mb3", "emoji 😀", false},
		{"utf8mb4", "emoji 😀", true},
		{"binary", "\xff\xfe", true},
		{"utf16", "日本", true},
	}

	for _, tt := range tests {
		t.Run(tt.charset+"/"+tt.text, func(t *testing.T) {
			cs, err := Lookup(tt.charset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cs.CanEncode(tt.text))
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "utf8mb4")
	assert.Contains(t, names, "utf8")
	assert.IsIncreasing(t, names)
}
