package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai_detector/internal/analysis"
	"ai_detector/internal/lifecycle"
	"ai_detector/internal/logger"
)

type Kind string

const (
	KindDetect   Kind = "detect"
	KindUpload   Kind = "upload"
	KindHumanize Kind = "humanize"
)

// Service is the remote analysis service. *transport.Client implements it.
type Service interface {
	Detect(ctx context.Context, id uuid.UUID, text string) (analysis.AnalysisResult, error)
	Upload(ctx context.Context, id uuid.UUID, file analysis.UploadedFile) (analysis.AnalysisResult, error)
	Humanize(ctx context.Context, id uuid.UUID, text string) (analysis.HumanizeResult, error)
}

type (
	Detect   = lifecycle.Controller[string, analysis.AnalysisResult]
	Upload   = lifecycle.Controller[analysis.UploadedFile, analysis.AnalysisResult]
	Humanize = lifecycle.Controller[string, analysis.HumanizeResult]
)

// Record is a settled submission, flattened for history and logging.
type Record struct {
	Kind          Kind
	Ticket        uuid.UUID
	Input         string
	Overall       *analysis.Overall
	SentenceCount int
	Err           error
	StartedAt     time.Time
	FinishedAt    time.Time
}

const excerptRunes = 120

type Hooks struct {
	Logger    logger.Logger
	OnSettled func(Record)
	// OnChange fires after every state transition of any workflow, in order.
	// It must not start another transition synchronously.
	OnChange func(Kind)
}

func (h Hooks) changed(k Kind) {
	if h.OnChange != nil {
		h.OnChange(k)
	}
}

func (h Hooks) settled(r Record) {
	if h.OnSettled != nil {
		h.OnSettled(r)
	}
}

func NewDetect(svc Service, hooks Hooks) *Detect {
	return lifecycle.New(lifecycle.Options[string, analysis.AnalysisResult]{
		Name:     string(KindDetect),
		Validate: textValidator(MsgEmptyDetect),
		Submit:   svc.Detect,
		Logger:   hooks.Logger,
		OnChange: func(lifecycle.State[analysis.AnalysisResult]) { hooks.changed(KindDetect) },
		OnSettled: func(o lifecycle.Outcome[string, analysis.AnalysisResult]) {
			hooks.settled(analysisRecord(KindDetect, analysis.Excerpt(o.Input, excerptRunes), o.Ticket, o.Result, o.Err, o.StartedAt, o.FinishedAt))
		},
	})
}

func NewUpload(svc Service, hooks Hooks) *Upload {
	return lifecycle.New(lifecycle.Options[analysis.UploadedFile, analysis.AnalysisResult]{
		Name:     string(KindUpload),
		Validate: ValidateFile,
		Submit:   svc.Upload,
		Logger:   hooks.Logger,
		OnChange: func(lifecycle.State[analysis.AnalysisResult]) { hooks.changed(KindUpload) },
		OnSettled: func(o lifecycle.Outcome[analysis.UploadedFile, analysis.AnalysisResult]) {
			hooks.settled(analysisRecord(KindUpload, o.Input.Name, o.Ticket, o.Result, o.Err, o.StartedAt, o.FinishedAt))
		},
	})
}

func NewHumanize(svc Service, hooks Hooks) *Humanize {
	return lifecycle.New(lifecycle.Options[string, analysis.HumanizeResult]{
		Name:     string(KindHumanize),
		Validate: textValidator(MsgEmptyHumanize),
		Submit:   svc.Humanize,
		Logger:   hooks.Logger,
		OnChange: func(lifecycle.State[analysis.HumanizeResult]) { hooks.changed(KindHumanize) },
		OnSettled: func(o lifecycle.Outcome[string, analysis.HumanizeResult]) {
			hooks.settled(Record{
				Kind:       KindHumanize,
				Ticket:     o.Ticket,
				Input:      analysis.Excerpt(o.Input, excerptRunes),
				Err:        o.Err,
				StartedAt:  o.StartedAt,
				FinishedAt: o.FinishedAt,
			})
		},
	})
}

func analysisRecord(kind Kind, input string, ticket uuid.UUID, res *analysis.AnalysisResult, err error, started, finished time.Time) Record {
	r := Record{
		Kind:       kind,
		Ticket:     ticket,
		Input:      input,
		Err:        err,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if res != nil {
		r.Overall = res.Overall
		r.SentenceCount = len(res.Sentences)
	}
	return r
}

// SelectFile replaces the upload selection. A file that fails validation is
// not taken: the error is surfaced and the previous selection stays.
func SelectFile(c *Upload, path, mimeOverride string) (analysis.UploadedFile, error) {
	f, err := Inspect(path, mimeOverride)
	if err == nil {
		err = ValidateFile(f)
	}
	if err != nil {
		if rejErr := c.Reject(err); rejErr != nil {
			return analysis.UploadedFile{}, rejErr
		}
		return analysis.UploadedFile{}, err
	}
	if err := c.SetInput(f); err != nil {
		return analysis.UploadedFile{}, err
	}
	if err := c.Dismiss(); err != nil {
		return analysis.UploadedFile{}, err
	}
	return f, nil
}

// Set holds one independent instance of each workflow.
type Set struct {
	Detect   *Detect
	Upload   *Upload
	Humanize *Humanize
}

func NewSet(svc Service, hooks Hooks) Set {
	return Set{
		Detect:   NewDetect(svc, hooks),
		Upload:   NewUpload(svc, hooks),
		Humanize: NewHumanize(svc, hooks),
	}
}
