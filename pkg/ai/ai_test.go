package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverse/config"
	"agriverse/pkg/logger"
)

func TestExtractArray_FirstOpenToLastClose(t *testing.T) {
	raw, ok := ExtractArray("Here you go:\n```json\n[{\"day\": 1}, {\"day\": [2]}]\n```\nGood luck!")
	require.True(t, ok)
	assert.Equal(t, `[{"day": 1}, {"day": [2]}]`, raw)

	_, ok = ExtractArray("no array here")
	assert.False(t, ok)
	_, ok = ExtractArray("] backwards [")
	assert.False(t, ok)
}

func TestDecodeArray(t *testing.T) {
	var out []map[string]any
	require.NoError(t, DecodeArray(`text [{"a":1}] tail`, &out))
	assert.Len(t, out, 1)

	assert.ErrorIs(t, DecodeArray("plain prose", &out), ErrNoJSON)
	assert.Error(t, DecodeArray("[not json]", &out))
}

func TestDecodeObject(t *testing.T) {
	var out struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, DecodeObject(`Sure! {"summary":"ok"}`, &out))
	assert.Equal(t, "ok", out.Summary)
}

func TestDecodeImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	img, err := DecodeImage("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, png, img.Data)

	img, err = DecodeImage(base64.StdEncoding.EncodeToString([]byte("opaque bytes")))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	_, err = DecodeImage("%%%")
	assert.ErrorIs(t, err, ErrBadImage)
}

func TestMock_ReplaysThenRepeatsLast(t *testing.T) {
	m := NewReplying("one", "two")
	ctx := context.Background()
	for _, want := range []string{"one", "two", "two"} {
		got, err := m.Complete(ctx, "", "p")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, m.Calls())
}

func TestMock_OfflineFails(t *testing.T) {
	_, err := NewMock().Complete(context.Background(), "", "p")
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("boom")
	_, err = (&Mock{Err: boom}).AnalyzeImage(context.Background(), "p", Image{})
	assert.ErrorIs(t, err, boom)
}

func TestOpenAI_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var req chatReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "m", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  [1,2]  "}}]}`))
	}))
	defer srv.Close()

	out, err := NewOpenAI(srv.URL, "k", "m").Complete(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", out)
}

func TestOpenAI_ImageSendsDataURL(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"DISEASE: Healthy"}}]}`))
	}))
	defer srv.Close()

	out, err := NewOpenAI(srv.URL, "k", "m").AnalyzeImage(context.Background(), "look", Image{MIMEType: "image/png", Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "DISEASE: Healthy", out)

	msgs := body["messages"].([]any)
	parts := msgs[1].(map[string]any)["content"].([]any)
	img := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/png;base64,AQI=", img["url"])
}

func TestOpenAI_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "k", "m").Complete(context.Background(), "", "hello")
	assert.ErrorContains(t, err, "status 429")
}

func TestNew_FallsBackToOffline(t *testing.T) {
	c := New(context.Background(), config.AppConfig{LLMProvider: "openai"}, logger.Nop())
	_, isMock := c.(*Mock)
	assert.True(t, isMock)

	c = New(context.Background(), config.AppConfig{LLMProvider: "gemini"}, logger.Nop())
	_, isMock = c.(*Mock)
	assert.True(t, isMock)
}
