package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fencedReply = "```json\n" + `{
  "theme": "dark",
  "themeStyle": "elegant",
  "branding": {"logoText": "Blue Bottle", "primaryColor": "#0ea5e9"},
  "sections": [
    {"type": "hero", "headline": "Slow Coffee", "cta": "Visit"},
    {"type": "gallery"},
    {"type": "contact", "contactDetails": {"email": "hi@bluebottle.example"}}
  ]
}` + "\n```"

func executeCommand(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	cmd.SetArgs(args)
	buf := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return buf.String(), err
}

func TestNormalizeFromStdin(t *testing.T) {
	out, err := executeCommand(newRootCmd(), fencedReply, "normalize")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "elegant", got["themeStyle"])
	assert.Equal(t, "Blue Bottle", got["branding"].(map[string]any)["logoText"])

	var types []string
	for _, s := range got["sections"].([]any) {
		types = append(types, s.(map[string]any)["type"].(string))
	}
	assert.Equal(t, []string{"hero", "contact"}, types)
}

func TestNormalizeRejectsNonJSON(t *testing.T) {
	_, err := executeCommand(newRootCmd(), "Sure! Here is your website.", "normalize")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotJSON)
	assert.Contains(t, err.Error(), "Suggestion:")
}

func TestRenderModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(fencedReply), 0o644))

	out, err := executeCommand(newRootCmd(), "", "render", path, "--year", "2030")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("[data-section]").Length())
	assert.Zero(t, doc.Find("[data-edit]").Length())
	assert.Contains(t, out, "2030")

	out, err = executeCommand(newRootCmd(), "", "render", path, "--editor", "--edit-endpoint", "/edits")
	require.NoError(t, err)
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Positive(t, doc.Find("[data-edit]").Length())
}

func TestExportToDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand(newRootCmd(), fencedReply, "export", "-", "--dir", dir, "--year", "2027")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "bluebottle.html"))
	require.NoError(t, err)
	html := string(raw)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "&copy; 2027 Blue Bottle")
}

func TestExportToOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "site.html")
	out, err := executeCommand(newRootCmd(), fencedReply, "export", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = os.Stat(target)
	assert.NoError(t, err)
}

func TestStylesListsDefault(t *testing.T) {
	out, err := executeCommand(newRootCmd(), "", "styles")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[4], "* corporate"))
	assert.True(t, strings.HasPrefix(lines[0], "  minimal"))
}
