package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/kanban/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainRenderer(t *testing.T) {
	render, err := tui.NewPlainRenderer()
	require.NoError(t, err)

	out, err := render("# Board\n\n- card one\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Board")
	assert.Contains(t, out, "card one")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
