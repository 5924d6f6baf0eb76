package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/promptforge/internal/api/auth"
	"github.com/promptforge/pkg/models"
)

func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := &cli.App{
		Name:      "promptforge",
		Writer:    &out,
		ErrWriter: &errOut,
		Reader:    strings.NewReader(stdin),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		},
		Commands: []*cli.Command{
			ComposeCommand(),
			ScoreCommand(),
			ConfigCommand(),
		},
	}
	err := app.Run(append([]string{"promptforge"}, args...))
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const composeRequest = `{
  "baseConfig": {
    "domain": "Education & Learning",
    "framework": "Role-Based",
    "basePrompt": "Explain photosynthesis",
    "frameworkConfig": {"role": "a biology teacher"}
  },
  "vsEnhancement": {"enabled": true},
  "advancedEnhancements": {
    "smartConstraints": {"enabled": true, "tone": {"enabled": true, "tone": "friendly"}}
  }
}`

func TestCompose_Preview(t *testing.T) {
	in := writeFile(t, "req.json", composeRequest)
	out, _, err := runApp(t, "", "compose", "--input", in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Use a friendly tone.\n\n"), out)
	assert.Contains(t, out, "You are a biology teacher.")
	assert.Contains(t, out, "Explain photosynthesis")
	assert.Contains(t, out, "<response>")
}

func TestCompose_JSONFromStdin(t *testing.T) {
	out, _, err := runApp(t, composeRequest, "compose", "-i", "-", "--json")
	require.NoError(t, err)

	var resp models.ComposeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Role-Based", resp.Generated.Metadata.Framework)
	assert.True(t, resp.Generated.Metadata.VSEnabled)
	assert.Contains(t, resp.Generated.FinalPrompt, "5 responses")
}

func TestCompose_InvalidRequest(t *testing.T) {
	in := writeFile(t, "req.json", `{"baseConfig": {"basePrompt": "  "}}`)
	_, _, err := runApp(t, "", "compose", "--input", in)
	assert.ErrorContains(t, err, "basePrompt: Base prompt is required")

	_, _, err = runApp(t, "", "compose", "--input", writeFile(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "failed to parse request")
}

func TestScore(t *testing.T) {
	out, _, err := runApp(t, "", "score")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Score: 65/100\n"), out)

	path := writeFile(t, "p.txt", "x")
	out, _, err = runApp(t, "", "score", "--json", "--file", path)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Contains(t, report, "score")
}

func TestConfigToken(t *testing.T) {
	cfgPath := writeFile(t, "promptforge.toml", "[auth]\njwt_secret = \"s3cret\"\n")
	out, errOut, err := runApp(t, "", "--config", cfgPath, "config", "token", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, errOut, "expires at")

	claims, err := auth.NewTokenService("s3cret").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestConfigToken_NoSecret(t *testing.T) {
	cfgPath := writeFile(t, "promptforge.toml", "")
	_, _, err := runApp(t, "", "--config", cfgPath, "config", "token", "--owner", "alice")
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}
