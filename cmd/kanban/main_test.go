package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/kanban/internal/config"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// cli runs commands against a file-backed board in a temp dir.
type cli struct {
	t     *testing.T
	dir   string
	board string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{t: t, dir: dir, board: filepath.Join(dir, "board.json")}
	t.Setenv("KANBAN_STORE", "file")
	t.Setenv("KANBAN_FILE_PATH", c.board)
	t.Setenv("KANBAN_LOG_LEVEL", "error")
	return c
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", filepath.Join(c.dir, "config.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "kanban %s", strings.Join(args, " "))
	return out
}

func (c *cli) cards(args ...string) []domain.Card {
	c.t.Helper()
	var cards []domain.Card
	out := c.must(append([]string{"card", "ls", "-o", "json"}, args...)...)
	require.NoError(c.t, json.Unmarshal([]byte(out), &cards))
	return cards
}

func TestCLI_CardLifecycle(t *testing.T) {
	c := newCLI(t)

	id := strings.TrimSpace(c.must("card", "add", "Write", "docs", "-p", "high", "--label", "documentation", "-a", "ana", "--due", "2026-11-01"))
	require.NotEmpty(t, id)

	cards := c.cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "Write docs", cards[0].Title)
	assert.Equal(t, domain.PriorityHigh, cards[0].Priority)
	require.NotNil(t, cards[0].Assignee)
	assert.Equal(t, "ana", *cards[0].Assignee)

	c.must("card", "move", id, "doing")
	cards = c.cards("--lane", "Doing")
	require.Len(t, cards, 1)
	assert.Empty(t, c.cards("--lane", "Todo"))

	c.must("card", "edit", id[:8], "--title", "Write better docs", "--assignee", "")
	cards = c.cards()
	assert.Equal(t, "Write better docs", cards[0].Title)
	assert.Nil(t, cards[0].Assignee)

	out := c.must("card", "history", id)
	assert.Contains(t, out, "Write docs")

	c.must("card", "undo", id)
	assert.Equal(t, "Write docs", c.cards()[0].Title)

	c.must("card", "rm", id)
	assert.Empty(t, c.cards())
	assert.Len(t, c.cards("--deleted"), 1)

	before := strings.Count(c.must("card", "history", id), "\n")
	c.must("card", "rm", id)
	assert.Equal(t, before+1, strings.Count(c.must("card", "history", id), "\n"), "a repeat delete still records a version")
	assert.Len(t, c.cards("--deleted"), 1)

	c.must("card", "restore", id)
	assert.Len(t, c.cards(), 1)
}

func TestCLI_CardValidation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("card", "add", "x", "-p", "asap")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = c.run("card", "add", "x", "--label", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownLabel)

	_, err = c.run("card", "add", "x", "--lane", "Backlog")
	assert.ErrorContains(t, err, "not found")

	_, err = c.run("card", "edit", "anything")
	assert.ErrorContains(t, err, "nothing to update")

	_, err = c.run("card", "undo", "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestCLI_LastLaneIsRejected(t *testing.T) {
	c := newCLI(t)

	c.must("lane", "rm", "Todo")
	c.must("lane", "rm", "Doing")
	_, err := c.run("lane", "rm", "Done")
	assert.EqualError(t, err, domain.MsgLastLane)

	out := c.must("lane", "ls")
	assert.Contains(t, out, "Done")

	// The rejection is not left behind on the stored board.
	out = c.must("show", "-f", "json")
	assert.NotContains(t, out, domain.MsgLastLane)
}

func TestCLI_LaneCommands(t *testing.T) {
	c := newCLI(t)

	id := strings.TrimSpace(c.must("lane", "add", "Review"))
	require.NotEmpty(t, id)
	c.must("lane", "rename", "review", "Code", "Review")
	c.must("lane", "reorder", "Done", "Code Review", "Doing", "Todo")

	out := c.must("show", "-f", "raw")
	assert.Less(t, strings.Index(out, "Done"), strings.Index(out, "Code Review"))
	assert.Less(t, strings.Index(out, "Code Review"), strings.Index(out, "Todo"))

	_, err := c.run("lane", "reorder", "Done")
	assert.Error(t, err)
}

func TestCLI_Projects(t *testing.T) {
	c := newCLI(t)

	c.must("card", "add", "first")
	second := strings.TrimSpace(c.must("project", "add", "Side", "quest"))

	out := c.must("project", "ls")
	assert.Contains(t, out, "Side quest")
	assert.Contains(t, out, domain.DefaultProjectTitle)
	assert.Empty(t, c.cards())

	c.must("project", "rename", second, "Side project")
	c.must("project", "use", domain.DefaultProjectTitle)
	assert.Len(t, c.cards(), 1)
	c.must("project", "use", domain.DefaultProjectTitle)

	c.must("project", "rm", "Side project")
	_, err := c.run("project", "rm", domain.DefaultProjectTitle)
	assert.EqualError(t, err, domain.MsgLastProject)
}

func TestCLI_ShowFormats(t *testing.T) {
	c := newCLI(t)
	c.must("card", "add", "Fix login", "-t", "bug", "-p", "urgent")

	out := c.must("show", "-f", "mermaid")
	assert.Contains(t, out, "kanban\n")
	assert.Contains(t, out, "Fix login")

	out = c.must("show", "-f", "raw")
	assert.Contains(t, out, "## Todo (1)")

	out = c.must("show")
	assert.Contains(t, out, "Fix login")

	_, err := c.run("show", "-f", "pdf")
	assert.Error(t, err)
}

func TestCLI_ExportImport(t *testing.T) {
	c := newCLI(t)
	c.must("card", "add", "Secret", "-a", "ana", "-d", "private notes")

	out := c.must("export", "--redact")
	assert.Contains(t, out, middleware.Mask)
	assert.NotContains(t, out, "private notes")

	path := filepath.Join(c.dir, "export.json")
	c.must("export", "-o", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "private notes")

	_, err = c.run("import", path)
	assert.ErrorContains(t, err, "already exists")

	legacy := filepath.Join(c.dir, "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`{"projects":[{"id":"p1","name":"Legacy","lanes":[{"id":"l1","title":"Inbox","order":0,"cardIds":[]}]}]}`), 0o600))
	out = c.must("import", legacy, "--force")
	assert.Contains(t, out, "imported 1 projects")

	out = c.must("lane", "ls")
	assert.Contains(t, out, "Inbox")
}

func TestCLI_Version(t *testing.T) {
	c := newCLI(t)
	out := c.must("version")
	assert.Contains(t, out, "kanban version")
}

func TestCLI_ConfigShowMasksSecrets(t *testing.T) {
	c := newCLI(t)
	t.Setenv("KANBAN_ENCRYPTION_KEY", testKey)

	out := c.must("config", "show")
	assert.NotContains(t, out, testKey)
	assert.Contains(t, out, middleware.Mask)

	c.must("config", "init")
	_, err := c.run("config", "init")
	assert.ErrorContains(t, err, "already exists")

	loaded, err := config.Load(filepath.Join(c.dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.BackendFile, loaded.Store.Backend)
}

func TestCLI_EncryptedFileStore(t *testing.T) {
	c := newCLI(t)
	t.Setenv("KANBAN_ENCRYPTION_KEY", testKey)

	c.must("card", "add", "classified")
	raw, err := os.ReadFile(c.board)
	require.NoError(t, err)
	assert.Contains(t, string(raw), middleware.EnvelopeKey)
	assert.NotContains(t, string(raw), "classified")

	assert.Len(t, c.cards(), 1)

	// Reading without the key shows nothing and leaves the file alone.
	t.Setenv("KANBAN_ENCRYPTION_KEY", "")
	assert.Empty(t, c.cards())
	after, err := os.ReadFile(c.board)
	require.NoError(t, err)
	assert.Equal(t, raw, after)
}
