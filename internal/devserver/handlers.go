package devserver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ai_detector/internal/aidetect"
	"ai_detector/internal/analysis"
	"ai_detector/internal/ingest"
	"ai_detector/internal/logger"
	"ai_detector/internal/transport"
	"ai_detector/internal/workflow"
)

// multipartOverhead is headroom for boundaries and part headers on top of the
// file size cap.
const multipartOverhead = 64 * 1024

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func bindText(c *gin.Context) (string, bool) {
	var req analysis.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		abortDetail(c, http.StatusBadRequest, "Text is required")
		return "", false
	}
	return req.Text, true
}

func (s *Server) handleDetect(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	res, err := s.score(c, "detect", text)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleUpload(c *gin.Context) {
	if c.Request.ContentLength > workflow.MaxUploadBytes+multipartOverhead {
		abortDetail(c, http.StatusRequestEntityTooLarge, "File size must be less than 10MB")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, workflow.MaxUploadBytes+multipartOverhead)

	fh, err := c.FormFile(transport.FileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortDetail(c, http.StatusRequestEntityTooLarge, "File size must be less than 10MB")
			return
		}
		abortDetail(c, http.StatusBadRequest, "No file provided")
		return
	}
	if fh.Size > workflow.MaxUploadBytes {
		abortDetail(c, http.StatusRequestEntityTooLarge, "File size must be less than 10MB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "Cannot read uploaded file")
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "Cannot read uploaded file")
		return
	}

	doc, err := ingest.Extract(fh.Filename, fh.Header.Get("Content-Type"), raw)
	switch {
	case errors.Is(err, ingest.ErrUnsupported):
		abortDetail(c, http.StatusUnsupportedMediaType, "Unsupported file type")
		return
	case errors.Is(err, ingest.ErrNoText):
		abortDetail(c, http.StatusUnprocessableEntity, "No text could be extracted from the file")
		return
	case err != nil:
		s.log.Warn("extraction failed", logger.String("file", fh.Filename), logger.Error(err))
		abortDetail(c, http.StatusUnprocessableEntity, "Could not read the document")
		return
	}
	s.metrics.UploadBytes.Observe(float64(fh.Size))

	res, err := s.score(c, "upload", doc.Text)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleHumanize(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	out := s.rewriter.Rewrite(text)

	resp := analysis.HumanizeResult{
		HumanizedText: out.Text,
		Stats: &analysis.Stats{
			OriginalLength:  analysis.IntPtr(out.OriginalLength),
			HumanizedLength: analysis.IntPtr(out.HumanizedLength),
			WordsChanged:    analysis.IntPtr(out.WordsChanged),
		},
	}
	before, errBefore := aidetect.Analyze(c.Request.Context(), text, s.cfg.Detector, s.log)
	after, errAfter := aidetect.Analyze(c.Request.Context(), out.Text, s.cfg.Detector, s.log)
	if errBefore == nil && errAfter == nil {
		resp.Stats.Improvement = analysis.StringPtr(improvement(before.Score, after.Score))
	}
	c.JSON(http.StatusOK, resp)
}

// score runs the detector and writes the error response itself on failure.
func (s *Server) score(c *gin.Context, workflowName, text string) (analysis.AnalysisResult, error) {
	report, err := aidetect.Analyze(c.Request.Context(), text, s.cfg.Detector, s.log)
	if err != nil {
		if errors.Is(err, aidetect.ErrEmptyText) {
			abortDetail(c, http.StatusBadRequest, "Text is required")
		} else {
			s.log.Error("scoring failed", logger.Error(err))
			abortDetail(c, http.StatusInternalServerError, "Analysis failed")
		}
		return analysis.AnalysisResult{}, err
	}
	s.metrics.Scored.WithLabelValues(workflowName, string(report.Likelihood)).Inc()

	res := analysis.AnalysisResult{
		Overall: &analysis.Overall{
			Score:        report.Score,
			Label:        report.Label,
			AILikelihood: string(report.Likelihood),
		},
		Sentences: make([]analysis.Sentence, 0, len(report.Sentences)),
	}
	for _, sc := range report.Sentences {
		res.Sentences = append(res.Sentences, analysis.Sentence{
			Sentence:     sc.Text,
			Score:        sc.Score,
			AILikelihood: string(sc.Likelihood),
		})
	}
	return res, nil
}

// improvement is the relative drop in overall score, as a whole percentage.
func improvement(before, after float64) string {
	if before <= 0 {
		return "0%"
	}
	pct := (before - after) / before * 100
	if pct < 0 {
		pct = 0
	}
	return fmt.Sprintf("%.0f%%", math.Round(pct))
}
