package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/drpcorg/dedupe/dedupe_errors"
	"github.com/drpcorg/dedupe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, eout bytes.Buffer
	repl := NewREPL(&out, &eout, utils.NewWriterLogger(io.Discard, slog.LevelError))
	t.Cleanup(func() { _ = repl.Close() })
	return repl, &out, &eout
}

func run(t *testing.T, repl *REPL, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, repl.Execute(line), line)
	return out.String()
}

func TestREPL_Session(t *testing.T) {
	repl, out, _ := newTestREPL(t)

	assert.Equal(t, "queued add 1 a\n", run(t, repl, out, "upsert 1 a"))
	run(t, repl, out, "upsert 2 a")
	run(t, repl, out, "upsert 3 b")
	assert.Equal(t, "items 0 groups 0 pending 3\n", run(t, repl, out, "stat"))

	assert.Equal(t, "applied 3 changes: 3 items in 2 groups\n", run(t, repl, out, "apply"))
	assert.Equal(t, "*1 2\n", run(t, repl, out, "group a"))
	assert.Equal(t, "3\n", run(t, repl, out, "rep b"))
	assert.Equal(t, "true\n", run(t, repl, out, "root 1"))
	assert.Equal(t, "false\n", run(t, repl, out, "root 2"))

	run(t, repl, out, "remove 1")
	run(t, repl, out, "apply")
	assert.Equal(t, "*2\n", run(t, repl, out, "group a"))
	assert.Equal(t, "no group c\n", run(t, repl, out, "group c"))

	assert.Equal(t, "rebuilt: 2 items in 2 groups\n", run(t, repl, out, "rebuild"))
}

func TestREPL_GeneratedID(t *testing.T) {
	repl, out, _ := newTestREPL(t)
	line := run(t, repl, out, "upsert x")
	fields := strings.Fields(line)
	require.Len(t, fields, 4)
	assert.Len(t, fields[2], 36)
	run(t, repl, out, "apply")
	assert.Equal(t, fields[2]+"\n", run(t, repl, out, "rep x"))
}

func TestREPL_Usage(t *testing.T) {
	repl, _, eout := newTestREPL(t)
	assert.Equal(t, HelpUpsert, repl.Execute("upsert"))
	assert.Equal(t, HelpRemove, repl.Execute("remove"))
	assert.Equal(t, HelpRoot, repl.Execute("root"))
	assert.Equal(t, HelpGroup, repl.Execute("group a b"))
	assert.Equal(t, HelpRep, repl.Execute("rep"))
	assert.Equal(t, HelpMetrics, repl.Execute("metrics"))
	assert.NoError(t, repl.Execute("   "))
	assert.NoError(t, repl.Execute("frobnicate"))
	assert.Equal(t, "command unknown: frobnicate\n", eout.String())
	assert.Equal(t, io.EOF, repl.Execute("exit"))
}

func TestREPL_Close(t *testing.T) {
	repl, out, _ := newTestREPL(t)
	assert.Equal(t, "index closed\n", run(t, repl, out, "close"))
	assert.ErrorIs(t, repl.Execute("upsert 1 a"), dedupe_errors.ErrClosed)
	assert.ErrorIs(t, repl.Execute("stat"), dedupe_errors.ErrClosed)
	assert.ErrorIs(t, repl.Execute("close"), dedupe_errors.ErrClosed)
}

func TestREPL_Metrics(t *testing.T) {
	repl, out, _ := newTestREPL(t)
	run(t, repl, out, "upsert 1 a")
	run(t, repl, out, "apply")

	line := run(t, repl, out, "metrics 127.0.0.1:0")
	require.True(t, strings.HasPrefix(line, "serving metrics on "))
	url := strings.TrimSpace(strings.TrimPrefix(line, "serving metrics on "))
	assert.Equal(t, ErrMetricsRunning, repl.Execute("metrics 127.0.0.1:0"))

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dedupe_index_items{index="repl"}`)
}
