package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagemeta"
	main "github.com/fwojciec/pagemeta/cmd/pagemeta"
	"github.com/fwojciec/pagemeta/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMain returns a Main backed by a database in a temp directory.
func newMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "pagemeta.db")
	return m
}

func TestMain_Help(t *testing.T) {
	t.Parallel()

	t.Run("shows help when asked", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := newMain(t).Run(context.Background(), []string{"--help"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "pagemeta")
		assert.Contains(t, stdout.String(), "extract")
	})

	t.Run("shows help and fails with no arguments", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := newMain(t).Run(context.Background(), []string{}, &stdout, &stderr)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "pagemeta")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := newMain(t).Run(context.Background(), []string{"extract", "--format", "xml", "https://x.test/"}, &stdout, &stderr)

		require.Error(t, err)
	})

	t.Run("parses the idle wait flag", func(t *testing.T) {
		t.Parallel()

		var cli main.CLI
		parser, err := kong.New(&cli)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"extract", "--browser", "--idle", "1500ms", "https://x.test/"})

		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, cli.Extract.Idle)
	})

	t.Run("idle wait is off by default", func(t *testing.T) {
		t.Parallel()

		var cli main.CLI
		parser, err := kong.New(&cli)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"extract", "https://x.test/"})

		require.NoError(t, err)
		assert.Zero(t, cli.Extract.Idle)
	})
}

func TestMain_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts static HTML over HTTP", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html lang="en"><head><meta name="description" content="Hello"><link rel="canonical" href="/p"></head><body><h1>Title</h1></body></html>`))
		}))
		defer srv.Close()

		var stdout, stderr bytes.Buffer
		err := newMain(t).Run(context.Background(), []string{"extract", srv.URL + "/a/b"}, &stdout, &stderr)

		require.NoError(t, err)
		records := decodeRecords(t, &stdout)
		require.Len(t, records, 1)
		assert.Equal(t, "Hello", records[0]["description"])
		assert.Equal(t, srv.URL+"/p", records[0]["canonical"])
		assert.Equal(t, "en", records[0]["language"])
		assert.Equal(t, "UTF-8", records[0]["charset"])
		assert.Empty(t, stderr.String(), "quiet by default")
	})

	t.Run("logs extraction when verbose", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Extractor = describeURL()

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"-v", "extract", "https://x.test/"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "msg=extract")
		assert.Contains(t, stderr.String(), "url=https://x.test/")
	})

	t.Run("rejects negative limits", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Extractor = describeURL()

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"extract", "--max-links=-1", "https://x.test/"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, pagemeta.EINVALID, pagemeta.ErrorCode(err))
	})

	t.Run("writes JSON files with --out", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Extractor = describeURL()
		out := filepath.Join(t.TempDir(), "results")

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"extract", "--out", out, "https://x.test/docs/"}, &stdout, &stderr)

		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(out, "x.test", "docs", "index.json"))
		require.NoError(t, err)
		assert.Contains(t, string(b), `"description": "about https://x.test/docs/"`)
	})

	t.Run("does not open the database without --save", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = "/nonexistent/dir/pagemeta.db"
		m.Extractor = describeURL()

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"extract", "https://x.test/"}, &stdout, &stderr)

		require.NoError(t, err)
	})
}

func TestMain_SaveHistoryShowDelete(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	m.Extractor = &mock.PageExtractor{
		ExtractPageFn: func(_ context.Context, url string) (*pagemeta.PageMetadata, error) {
			md := pagemeta.NewPageMetadata()
			md.Author = "Jane"
			return md, nil
		},
	}
	ctx := context.Background()

	// Given a saved extraction
	var stdout, stderr bytes.Buffer
	require.NoError(t, m.Run(ctx, []string{"extract", "--save", "https://x.test/"}, &stdout, &stderr))

	// When I list history
	stdout.Reset()
	require.NoError(t, m.Run(ctx, []string{"history", "https://x.test/"}, &stdout, &stderr))

	// Then one snapshot is listed
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 1)
	id := strings.Fields(lines[0])[0]

	// And it can be shown
	stdout.Reset()
	require.NoError(t, m.Run(ctx, []string{"show", id}, &stdout, &stderr))
	records := decodeRecords(t, &stdout)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane", records[0]["author"])

	// And deleted
	stdout.Reset()
	require.NoError(t, m.Run(ctx, []string{"delete", "--force", id}, &stdout, &stderr))

	stdout.Reset()
	err := m.Run(ctx, []string{"show", id}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, pagemeta.ENOTFOUND, pagemeta.ErrorCode(err))
}

func TestMain_OpenDatabaseFailure(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = "/nonexistent/dir/pagemeta.db"

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"history", "https://x.test/"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "PAGEMETA_DB")
}
