package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_detector/internal/analysis"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/"}, nil)
	require.NoError(t, err)
	return c
}

func TestDetectPostsJSON(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathDetect, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, id.String(), r.Header.Get("X-Request-ID"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"text": "The weather is nice today."}, body)

		_, _ = io.WriteString(w, `{"overall":{"score":0.85,"label":"AI","ai_likelihood":"High"},"sentences":[{"sentence":"The weather is nice today.","score":0.85,"ai_likelihood":"High"}]}`)
	})

	res, err := c.Detect(context.Background(), id, "The weather is nice today.")
	require.NoError(t, err)
	require.NotNil(t, res.Overall)
	assert.InDelta(t, 0.85, res.Overall.Score, 1e-9)
	assert.Equal(t, "High", res.Overall.AILikelihood)
	require.Len(t, res.Sentences, 1)
	assert.Equal(t, "The weather is nice today.", res.Sentences[0].Sentence)
}

func TestDetectMissingSectionsAreNotErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	res, err := c.Detect(context.Background(), uuid.Nil, "x")
	require.NoError(t, err)
	assert.Nil(t, res.Overall)
	assert.Empty(t, res.Sentences)
}

func TestNonSuccessStatusUsesGenericMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"model exploded","code":"E42"}`)
	})

	_, err := c.Detect(context.Background(), uuid.Nil, "x")
	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, MsgDetectFailed, err.Error())
	assert.Equal(t, http.StatusInternalServerError, te.Status)

	_, err = c.Humanize(context.Background(), uuid.Nil, "x")
	assert.Equal(t, MsgHumanizeFailed, err.Error())
}

func TestNetworkFailureCarriesUnderlyingMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base}, nil)
	require.NoError(t, err)
	_, err = c.Detect(context.Background(), uuid.Nil, "x")
	require.Error(t, err)
	assert.NotEqual(t, MsgDetectFailed, err.Error())
	assert.Contains(t, err.Error(), "connect")
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, f.err }

func TestNetworkFailureWithoutMessageFallsBackToGeneric(t *testing.T) {
	err := networkError("upload", emptyErr{}, MsgUploadFailed)
	assert.Equal(t, MsgUploadFailed, err.Error())
	assert.True(t, errors.Is(err, emptyErr{}))

	c, cerr := New(Config{BaseURL: "http://example.invalid", HTTPClient: &http.Client{Transport: failingTransport{err: errors.New("network down")}}}, nil)
	require.NoError(t, cerr)
	_, err2 := c.Humanize(context.Background(), uuid.Nil, "x")
	assert.Contains(t, err2.Error(), "network down")
}

func TestUploadSendsSingleFileField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "essay.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain words"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathUpload, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Len(t, r.MultipartForm.File, 1)
		fh := r.MultipartForm.File[FileField]
		require.Len(t, fh, 1)
		assert.Equal(t, "essay.txt", fh[0].Filename)
		assert.Equal(t, "text/plain", fh[0].Header.Get("Content-Type"))
		f, err := fh[0].Open()
		require.NoError(t, err)
		defer f.Close()
		raw, _ := io.ReadAll(f)
		assert.Equal(t, "plain words", string(raw))
		_, _ = io.WriteString(w, `{"overall":{"score":0.2,"label":"Human","ai_likelihood":"Low"}}`)
	})

	res, err := c.Upload(context.Background(), uuid.New(), analysis.UploadedFile{
		Name: "essay.txt", Size: 11, MimeType: "text/plain", Path: path,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Overall)
	assert.Equal(t, "Low", res.Overall.AILikelihood)
}

func TestUploadStatusFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	})
	_, err := c.Upload(context.Background(), uuid.Nil, analysis.UploadedFile{Name: "a.pdf", MimeType: "application/pdf", Path: path})
	assert.EqualError(t, err, MsgUploadFailed)
}

func TestHumanizeKeepsAbsentStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathHumanize, r.URL.Path)
		_, _ = io.WriteString(w, `{"humanized_text":"hi there","stats":{"original_length":120,"humanized_length":0,"words_changed":null}}`)
	})
	res, err := c.Humanize(context.Background(), uuid.Nil, "hello there")
	require.NoError(t, err)
	assert.Equal(t, "hi there", res.HumanizedText)
	require.NotNil(t, res.Stats)
	require.NotNil(t, res.Stats.OriginalLength)
	assert.Equal(t, 120, *res.Stats.OriginalLength)
	require.NotNil(t, res.Stats.HumanizedLength)
	assert.Equal(t, 0, *res.Stats.HumanizedLength)
	assert.Nil(t, res.Stats.WordsChanged)
	assert.Nil(t, res.Stats.Improvement)
}

func TestMalformedJSONIsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	})
	_, err := c.Detect(context.Background(), uuid.Nil, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost:8000"}, nil)
	require.Error(t, err)

	c, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
