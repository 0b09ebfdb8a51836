package pipeline

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/dgallion1/mdenrich/internal/enhance"
	"github.com/dgallion1/mdenrich/internal/format"
	"github.com/dgallion1/mdenrich/internal/images"
)

// Worker processes a single document job.
type Worker struct {
	localizer *images.Localizer
	enhancer  *enhance.Enhancer
	log       logrus.FieldLogger
}

func NewWorker(localizer *images.Localizer, enhancer *enhance.Enhancer, log logrus.FieldLogger) *Worker {
	return &Worker{
		localizer: localizer,
		enhancer:  enhancer,
		log:       log,
	}
}

// Process runs the requested steps for a job: organize (localize images and
// beautify) and then enhance. Image failures make the job partial; the
// document is still produced.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.WithFields(logrus.Fields{"job_id": job.ID, "file": job.Filename})

	input := job.Input()
	if !utf8.Valid(input) {
		log.Error("input is not valid UTF-8")
		job.AddError("input is not valid UTF-8 text")
		job.SetStatus(StatusFailed, "reading")
		return
	}
	text := string(input)
	hadErrors := false

	// Phase 1: Organize
	if job.Options.Organize {
		job.SetStatus(StatusOrganizing, "localizing images")
		var stats images.Stats
		text, stats = w.localizer.Rewrite(ctx, text, job.Options.BaseURL)
		job.SetImageStats(stats)
		if stats.Failed > 0 {
			hadErrors = true
			job.AddError(fmt.Sprintf("%d image reference(s) could not be downloaded", stats.Failed))
		}
		text = format.Beautify(text)
		log.WithFields(logrus.Fields{
			"found":     stats.Found,
			"localized": stats.Localized,
			"failed":    stats.Failed,
		}).Info("organize complete")
	}

	if err := ctx.Err(); err != nil {
		job.AddError(fmt.Sprintf("cancelled: %s", err))
		job.SetStatus(StatusFailed, "organizing")
		return
	}

	// Phase 2: Enhance
	if job.Options.Enhance {
		job.SetStatus(StatusEnhancing, "inserting sections")
		var inserted []string
		out, _, sections := w.enhancer.Enhance(text)
		for _, s := range sections {
			inserted = append(inserted, string(s))
		}
		text = out
		job.AddSections(inserted...)
		log.WithField("sections", inserted).Info("enhance complete")
	}

	job.SetResult(text)
	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
