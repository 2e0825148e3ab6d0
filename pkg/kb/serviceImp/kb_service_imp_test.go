package serviceImp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverse/config"
	"agriverse/database/dbtest"
	"agriverse/pkg/apperr"
	"agriverse/pkg/kb/repositoryImp"
	"agriverse/pkg/kb/service"
	"agriverse/pkg/logger"
)

func newSvc(t *testing.T, allowed ...string) *Svc {
	t.Helper()
	return New(repositoryImp.New(dbtest.DB(t)), config.AppConfig{KBAllowedDomains: allowed}, logger.Nop())
}

func TestChunkText(t *testing.T) {
	text := strings.Repeat("a", 600) + "\n" + strings.Repeat("b", 600) + "\n" + "tail"
	parts := chunkText(text, 1000)
	require.Len(t, parts, 2)
	assert.True(t, strings.HasSuffix(parts[0], "b\n"))
	assert.Equal(t, "tail", parts[1])
	assert.Empty(t, chunkText("  \n ", 1000))
}

func TestIngestAndSearch(t *testing.T) {
	s := newSvc(t)
	_, err := s.Ingest(service.IngestRequest{Title: "Wheat guide", Text: "Wheat needs crown root irrigation at 21 days."})
	require.NoError(t, err)
	_, err = s.Ingest(service.IngestRequest{Title: "Rice guide", Text: "Transplant rice seedlings at 25 days. Rice likes standing water."})
	require.NoError(t, err)

	got, err := s.Search("wheat irrigation", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "crown root")

	got, err = s.Search("days", 5)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Search("sugarcane", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	hits, err := s.Lookup("transplant rice", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Rice guide", hits[0].DocTitle)

	_, err = s.Lookup(" ", 5)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestIngest_Validation(t *testing.T) {
	s := newSvc(t)
	_, err := s.Ingest(service.IngestRequest{Text: "x"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	_, err = s.Ingest(service.IngestRequest{Title: "x", Text: " "})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestIngestURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Maize Basics</title></head><body>
<nav><li>Home</li></nav>
<article><h1>Maize</h1><p>Sow maize when soil reaches 10 C.</p><li>Space rows 75 cm apart</li></article>
</body></html>`))
	}))
	defer srv.Close()

	s := newSvc(t, "127.0.0.1")
	res, err := s.IngestURL(context.Background(), service.IngestURLRequest{URL: srv.URL + "/maize", Tags: "maize"})
	require.NoError(t, err)
	assert.Equal(t, "Maize Basics", res.Doc.Title)
	assert.Equal(t, 1, res.Chunks)

	got, err := s.Search("maize rows", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "Space rows")
	assert.NotContains(t, got[0].Text, "Home")
}

func TestIngestURL_Rejects(t *testing.T) {
	s := newSvc(t, "extension.example.org")
	ctx := context.Background()

	_, err := s.IngestURL(ctx, service.IngestURLRequest{URL: "https://evil.example.com/x"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = s.IngestURL(ctx, service.IngestURLRequest{URL: "ftp://extension.example.org/x"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	s.fetch = func(context.Context, string, int) (string, string, error) { return "", "", assert.AnError }
	_, err = s.IngestURL(ctx, service.IngestURLRequest{URL: "https://extension.example.org/x"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}
