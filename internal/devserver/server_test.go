package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_detector/internal/aidetect"
	"ai_detector/internal/analysis"
	"ai_detector/internal/classify"
	"ai_detector/internal/transport"
	"ai_detector/internal/workflow"
)

const stockText = "Furthermore, it is important to note that this comprehensive approach delves into the intricate tapestry of modern society. " +
	"Moreover, technology plays a crucial role in fostering seamless collaboration across the landscape. " +
	"Additionally, organizations must leverage robust frameworks to navigate this multifaceted realm."

func newTestServer(t *testing.T) (*Server, *transport.Client) {
	t.Helper()
	srv, err := New(Config{GinMode: gin.TestMode, Detector: aidetect.DefaultConfig()}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	client, err := transport.New(transport.Config{BaseURL: ts.URL}, nil)
	require.NoError(t, err)
	return srv, client
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func writeFile(t *testing.T, name string, data []byte) analysis.UploadedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	f, err := workflow.Inspect(path, "")
	require.NoError(t, err)
	return f
}

func TestDetectThroughClient(t *testing.T) {
	_, client := newTestServer(t)
	res, err := client.Detect(context.Background(), uuid.New(), stockText)
	require.NoError(t, err)

	require.NotNil(t, res.Overall)
	assert.Equal(t, aidetect.LabelAI, res.Overall.Label)
	assert.Equal(t, string(classify.TierHigh), res.Overall.AILikelihood)
	require.Len(t, res.Sentences, 3)
	assert.True(t, strings.HasPrefix(res.Sentences[0].Sentence, "Furthermore"))
	for _, s := range res.Sentences {
		assert.Equal(t, string(classify.TierForScore(s.Score)), s.AILikelihood)
	}
}

func TestHumanizeThroughClient(t *testing.T) {
	_, client := newTestServer(t)
	res, err := client.Humanize(context.Background(), uuid.New(), stockText)
	require.NoError(t, err)

	assert.NotEqual(t, stockText, res.HumanizedText)
	assert.True(t, strings.HasPrefix(res.HumanizedText, "Also,"))
	require.NotNil(t, res.Stats)
	require.NotNil(t, res.Stats.OriginalLength)
	assert.Equal(t, len(stockText), *res.Stats.OriginalLength)
	require.NotNil(t, res.Stats.WordsChanged)
	assert.Positive(t, *res.Stats.WordsChanged)
	require.NotNil(t, res.Stats.Improvement)
	assert.True(t, strings.HasSuffix(*res.Stats.Improvement, "%"))
}

func TestUploadTextFile(t *testing.T) {
	_, client := newTestServer(t)
	f := writeFile(t, "essay.txt", []byte(stockText))
	res, err := client.Upload(context.Background(), uuid.New(), f)
	require.NoError(t, err)
	require.NotNil(t, res.Overall)
	assert.Len(t, res.Sentences, 3)
}

func TestUploadRejections(t *testing.T) {
	srv, client := newTestServer(t)

	legacy := writeFile(t, "old.doc", []byte("binary"))
	_, err := client.Upload(context.Background(), uuid.New(), legacy)
	var terr *transport.Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusUnsupportedMediaType, terr.Status)
	assert.Equal(t, transport.MsgUploadFailed, err.Error())

	big := writeFile(t, "big.txt", make([]byte, workflow.MaxUploadBytes+1))
	_, err = client.Upload(context.Background(), uuid.New(), big)
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, terr.Status)

	empty := writeFile(t, "empty.txt", []byte("   "))
	_, err = client.Upload(context.Background(), uuid.New(), empty)
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusUnprocessableEntity, terr.Status)

	req := httptest.NewRequest(http.MethodPost, transport.PathUpload, strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, tc := range []struct{ path, body, detail string }{
		{transport.PathDetect, `{"text":`, "Invalid request body"},
		{transport.PathDetect, `{"text":"   "}`, "Text is required"},
		{transport.PathHumanize, `{}`, "Text is required"},
	} {
		rec := postJSON(t, srv, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.detail, body["detail"])
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSON(t, srv, transport.PathDetect, `{"text":"The weather is nice today."}`)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `adh_devserver_http_requests_total{method="POST",route="/api/detect",status="200"} 1`)
	assert.Contains(t, out, `adh_devserver_scored_texts_total{tier="Low",workflow="detect"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, transport.PathDetect, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}

func TestImprovement(t *testing.T) {
	assert.Equal(t, "50%", improvement(0.8, 0.4))
	assert.Equal(t, "0%", improvement(0.3, 0.5))
	assert.Equal(t, "0%", improvement(0, 0))
}
