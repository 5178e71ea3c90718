package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "verify", "problems", "email-preview"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestVerifyText(t *testing.T) {
	out, err := execute(t, "verify", "second-highest-salary", "management-chain")
	require.NoError(t, err)
	assert.Contains(t, out, "second-highest-salary")
	assert.Contains(t, out, "management-chain")
	assert.Contains(t, out, "2 problems")
	assert.Contains(t, out, "0 failed")
}

func TestVerifyJSON(t *testing.T) {
	out, err := execute(t, "verify", "--json")
	require.NoError(t, err)

	var got verifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	c, err := catalog.Default()
	require.NoError(t, err)
	assert.Equal(t, c.Len(), got.Summary.Problems)
	assert.Zero(t, got.Summary.Failed)
	assert.Len(t, got.Reports, c.Len())
}

func TestVerifyUnknownProblem(t *testing.T) {
	_, err := execute(t, "verify", "no-such-problem")
	require.ErrorIs(t, err, catalog.ErrProblemNotFound)
}

func TestProblems(t *testing.T) {
	out, err := execute(t, "problems", "--topic", "recursive-ctes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	for _, line := range lines[1:] {
		assert.Contains(t, line, "recursive-ctes")
	}

	out, err = execute(t, "problems", "--json")
	require.NoError(t, err)
	var all []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.NotEmpty(t, all)
}

func TestEmailPreview(t *testing.T) {
	out, err := execute(t, "email-preview")
	require.NoError(t, err)
	assert.Contains(t, out, "management-chain")

	path := filepath.Join(t.TempDir(), "report.html")
	_, err = execute(t, "email-preview", "-o", path)
	require.NoError(t, err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))

	_, err = execute(t, "email-preview", "--template", "welcome")
	require.Error(t, err)
}
