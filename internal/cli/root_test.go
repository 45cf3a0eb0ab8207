package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"completion", "parse", "repl", "tokens", "verify", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runRoot(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlfront v"+Version)

	out, _, err = runRoot(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlfront "+Version)
}

func TestRootFlagsReachCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantOut string
		wantErr string
	}{
		{
			name:    "auto output is json when piped",
			args:    []string{"parse", "-e", "SELECT 1"},
			wantOut: `"type": "SelectStmt"`,
		},
		{
			name:    "sql mode flag",
			args:    []string{"--sql-mode", "PIPES_AS_CONCAT", "parse", "-e", "SELECT a || b"},
			wantOut: `"Op": "||"`,
		},
		{
			name:    "flag after subcommand",
			args:    []string{"parse", "-o", "tree", "-e", "SELECT a FROM t"},
			wantOut: "TableName (Name=t)",
		},
		{
			name:    "tokens from stdin",
			args:    []string{"tokens", "-o", "yaml"},
			stdin:   "SELECT 1",
			wantOut: "text: SELECT",
		},
		{
			name:    "unknown dialect",
			args:    []string{"--dialect", "oracle", "parse", "-e", "SELECT 1"},
			wantErr: "oracle",
		},
		{
			name:    "bad sql mode",
			args:    []string{"--sql-mode", "NOPE", "parse", "-e", "SELECT 1"},
			wantErr: "NOPE",
		},
		{
			name:    "bad jobs",
			args:    []string{"-j", "0", "parse", "-e", "SELECT 1"},
			wantErr: "jobs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runRoot(t, tt.stdin, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestRootReadsConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlfront.yaml"),
		[]byte("sql_mode: ANSI_QUOTES\noutput: tree\n"), 0o644))

	out, _, err := runRoot(t, "", "parse", "-e", `SELECT "a" FROM t`)
	require.NoError(t, err)
	assert.Contains(t, out, "ColumnName (Name=a)")

	t.Setenv("SQLFRONT_OUTPUT", "json")
	out, _, err = runRoot(t, "", "parse", "-e", "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "-e[1]"`)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := runRoot(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "sqlfront")
		})
	}

	_, _, err := runRoot(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
