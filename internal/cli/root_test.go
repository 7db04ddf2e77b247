package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{{"serve"}, {"export"}, {"poster"}, {"admin", "passwd"}} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	env := cmd.PersistentFlags().Lookup("env")
	require.NotNil(t, env)
	assert.Equal(t, "local", env.DefValue)
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)

	format := exportCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "csv", format.DefValue)

	out := exportCmd.Flags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "o", out.Shorthand)

	for _, name := range []string{"member", "start", "end"} {
		assert.NotNil(t, exportCmd.Flags().Lookup(name), name)
	}
}

func TestRunExport_RejectsUnknownFormat(t *testing.T) {
	opts := &ExportOptions{RootOptions: &RootOptions{Env: "test"}, Format: "pdf"}

	err := runExport(context.Background(), opts, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestRunPasswd_RejectsShortPassword(t *testing.T) {
	opts := &AdminOptions{RootOptions: &RootOptions{Env: "test"}}

	err := runPasswd(context.Background(), opts, "admin", strings.NewReader("short\n"), &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8")
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "newline", input: "secret-pass\nignored\n", want: "secret-pass"},
		{name: "crlf", input: "secret-pass\r\n", want: "secret-pass"},
		{name: "no newline", input: "secret-pass", want: "secret-pass"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLine(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
