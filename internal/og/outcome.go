package og

import (
	"errors"
	"time"
)

// Status is the result of processing one item.
type Status int

const (
	// StatusPublished means the image was rendered and its URL written back.
	StatusPublished Status = iota
	// StatusReused means an existing URL was written back without rendering.
	StatusReused
	// StatusSkipped means nothing was done, e.g. fonts are missing.
	StatusSkipped
	// StatusFailed means a stage failed and the item was left untouched.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPublished:
		return "published"
	case StatusReused:
		return "reused"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Stage names the step an outcome stopped at.
type Stage string

const (
	StageConfig Stage = "config"
	StageFonts  Stage = "fonts"
	StageRender Stage = "render"
	StageUpload Stage = "upload"
	StageURL    Stage = "url"
)

// Outcome reports what happened to one item.
type Outcome struct {
	ItemID   string
	Key      string
	URL      string
	Status   Status
	Stage    Stage // set when the item was not published
	Err      error
	Uploaded bool
	Bytes    int
}

func (o Outcome) fail(stage Stage, err error) Outcome {
	o.Status, o.Stage, o.Err = StatusFailed, stage, err
	return o
}

// RunReport summarizes a batch run.
type RunReport struct {
	RunID     string
	Started   time.Time
	Duration  time.Duration
	Outcomes  []Outcome
	Published int
	Reused    int
	Skipped   int
	Failed    int
	Uploads   int
}

// Add records an outcome.
func (r *RunReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusPublished:
		r.Published++
	case StatusReused:
		r.Reused++
	case StatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	if o.Uploaded {
		r.Uploads++
	}
}

// Failures returns the failed outcomes.
func (r *RunReport) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// FontsMissing reports whether the run skipped rendering for lack of fonts.
func (r *RunReport) FontsMissing() bool {
	for _, o := range r.Outcomes {
		if errors.Is(o.Err, ErrFontsUnavailable) {
			return true
		}
	}
	return false
}
