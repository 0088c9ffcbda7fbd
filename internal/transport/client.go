package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai_detector/internal/analysis"
	"ai_detector/internal/logger"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	PathDetect   = "/api/detect"
	PathUpload   = "/api/upload"
	PathHumanize = "/api/humanize"

	FileField = "file"
)

// Config is fixed at construction. HTTPClient defaults to a client without
// a timeout: latency is whatever the underlying transport takes.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func New(cfg Config, log logger.Logger) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", base)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(base, "/"),
		http:    hc,
		log:     log,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Detect(ctx context.Context, id uuid.UUID, text string) (analysis.AnalysisResult, error) {
	var out analysis.AnalysisResult
	req, err := c.jsonRequest(ctx, PathDetect, text)
	if err != nil {
		return out, networkError("detect", err, MsgDetectFailed)
	}
	err = c.do(req, id, "detect", MsgDetectFailed, &out)
	return out, err
}

func (c *Client) Humanize(ctx context.Context, id uuid.UUID, text string) (analysis.HumanizeResult, error) {
	var out analysis.HumanizeResult
	req, err := c.jsonRequest(ctx, PathHumanize, text)
	if err != nil {
		return out, networkError("humanize", err, MsgHumanizeFailed)
	}
	err = c.do(req, id, "humanize", MsgHumanizeFailed, &out)
	return out, err
}

func (c *Client) Upload(ctx context.Context, id uuid.UUID, file analysis.UploadedFile) (analysis.AnalysisResult, error) {
	var out analysis.AnalysisResult
	body, contentType, err := multipartBody(file)
	if err != nil {
		return out, networkError("upload", err, MsgUploadFailed)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathUpload, body)
	if err != nil {
		return out, networkError("upload", err, MsgUploadFailed)
	}
	req.Header.Set("Content-Type", contentType)
	err = c.do(req, id, "upload", MsgUploadFailed, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, path, text string) (*http.Request, error) {
	raw, err := json.Marshal(analysis.TextRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, id uuid.UUID, op, generic string, out any) error {
	req.Header.Set("Accept", "application/json")
	if id != uuid.Nil {
		req.Header.Set("X-Request-ID", id.String())
	}
	log := c.log.With(
		logger.String("op", op),
		logger.String("path", req.URL.Path),
		logger.String("request_id", id.String()),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", logger.Duration("elapsed", time.Since(started)), logger.Error(err))
		return networkError(op, err, generic)
	}
	defer resp.Body.Close()

	log = log.With(logger.Int("status", resp.StatusCode), logger.Duration("elapsed", time.Since(started)))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warn("service returned error status")
		return statusError(op, resp.StatusCode, generic)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("decode response failed", logger.Error(err))
		return networkError(op, fmt.Errorf("decode response: %w", err), generic)
	}
	log.Debug("request completed")
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartBody(file analysis.UploadedFile) (io.Reader, string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FileField, quoteEscaper.Replace(file.Name)))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
