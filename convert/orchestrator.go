package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lepinkainen/resolveconv/video"
)

//go:generate mockgen -source=orchestrator.go -destination=mocks/mock_adapter.go -package=mocks

// Adapter converts one file by driving an external tool
type Adapter interface {
	// Convert writes src to dst. It succeeds only when the tool exits cleanly
	// and dst exists with a non-zero size. Output lines go to logLine.
	Convert(ctx context.Context, src, dst string, logLine func(string)) error
}

// Outcome is the overall result of a run
type Outcome int

const (
	OutcomeAllConverted Outcome = iota
	OutcomePartial
	OutcomeStopped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllConverted:
		return "all converted"
	case OutcomePartial:
		return "partial"
	case OutcomeStopped:
		return "stopped by user"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result summarises a finished run
type Result struct {
	RunID     uuid.UUID
	Files     []video.VideoFile // final state of Request.Files
	Total     int
	Converted int // includes skipped files
	Skipped   int
	Failed    int
	Outcome   Outcome
}

// Summary is the message shown to the user when the run ends
func (r Result) Summary() string {
	switch r.Outcome {
	case OutcomeStopped:
		return fmt.Sprintf("Conversion stopped by user (%d/%d converted)", r.Converted, r.Total)
	case OutcomeAllConverted:
		return fmt.Sprintf("Successfully converted %d videos", r.Converted)
	default:
		return fmt.Sprintf("Only %d/%d videos were converted successfully", r.Converted, r.Total)
	}
}

// Orchestrator runs conversion requests one file at a time
type Orchestrator struct {
	Avidemux  Adapter
	HandBrake Adapter

	// OpenDir is called once, after the first successful file of a run
	OpenDir func(dir string) error
	Now     func() time.Time
	Log     *logrus.Entry
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) logger() *logrus.Entry {
	if o.Log != nil {
		return o.Log
	}
	return logrus.NewEntry(logrus.StandardLogger()).WithField("component", "orchestrator")
}

// adapterFor picks the tool for a profile
func (o *Orchestrator) adapterFor(p Profile) (Adapter, error) {
	var a Adapter
	switch p.ID {
	case ProfileResolve:
		a = o.Avidemux
	case ProfileH264:
		a = o.HandBrake
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, p.ID)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: no adapter configured for %s", ErrToolNotFound, p.Name)
	}
	return a, nil
}

// Run converts the request's files in order. ctx is the cancellation token:
// it is checked before every file, and adapters may observe it mid-file.
// A failing file never stops the batch.
func (o *Orchestrator) Run(ctx context.Context, req Request, obs Observer) Result {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	log := o.logger().WithField("run", req.RunID.String())

	res := Result{
		RunID: req.RunID,
		Files: make([]video.VideoFile, len(req.Files)),
		Total: len(req.Files),
	}
	copy(res.Files, req.Files)

	log.WithFields(logrus.Fields{
		"files":  res.Total,
		"format": req.Profile.ID,
		"policy": req.Policy,
		"output": req.OutputDir,
	}).Info("conversion run started")

	opened := false
	processed := 0
	for i := range res.Files {
		if ctx.Err() != nil {
			obs.Log("Conversion stopped by user")
			break
		}

		f := &res.Files[i]
		o.setStatus(f, i, video.StatusConverting, obs, log)
		obs.Log(fmt.Sprintf("Converting %s...", f.Name))
		obs.Progress(i, res.Total)

		ok, skipped := o.convertOne(ctx, req, *f, obs, log)
		processed++

		if !ok {
			res.Failed++
			o.setStatus(f, i, video.StatusFailed, obs, log)
			continue
		}

		res.Converted++
		if skipped {
			res.Skipped++
		}
		o.setStatus(f, i, video.StatusCompleted, obs, log)

		if !opened {
			opened = true
			o.openOutput(req.OutputDir, obs, log)
		}
	}

	obs.Progress(processed, res.Total)

	switch {
	case ctx.Err() != nil:
		res.Outcome = OutcomeStopped
		obs.Log("✓ Conversion stopped by user")
	case res.Converted == res.Total:
		res.Outcome = OutcomeAllConverted
		obs.Log("✓ All conversions completed successfully!")
	default:
		res.Outcome = OutcomePartial
		obs.Log(fmt.Sprintf("⚠ %d/%d conversions completed", res.Converted, res.Total))
	}

	log.WithFields(logrus.Fields{
		"converted": res.Converted,
		"failed":    res.Failed,
		"skipped":   res.Skipped,
		"outcome":   res.Outcome.String(),
	}).Info("conversion run finished")

	return res
}

func (o *Orchestrator) setStatus(f *video.VideoFile, index int, next video.Status, obs Observer, log *logrus.Entry) {
	if err := f.Transition(next); err != nil {
		log.WithError(err).Error("status transition refused")
		return
	}
	obs.FileStatus(index, *f)
}

// convertOne resolves the destination and dispatches to an adapter.
// A panic in an adapter is logged and counted as a failure of this file.
func (o *Orchestrator) convertOne(ctx context.Context, req Request, f video.VideoFile, obs Observer, log *logrus.Entry) (ok, skipped bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("file", f.Path).Errorf("adapter panic: %v", r)
			obs.Log(fmt.Sprintf("❌ Error converting %s: %v", f.Name, r))
			ok, skipped = false, false
		}
	}()

	dst := DestinationPath(req.OutputDir, f.Path, req.Profile)
	resolved, skip := req.Policy.Resolve(dst, o.now())
	if skip {
		obs.Log(fmt.Sprintf("⏭️  Skipping %s (file exists)", f.Name))
		return true, true
	}
	if sameFile(f.Path, resolved) {
		// converting in place would delete the source before the tool reads it
		resolved = numericSuffixPath(resolved)
		obs.Log(fmt.Sprintf("⚠️  Output would replace the source %s, writing %s instead", f.Name, filepath.Base(resolved)))
	} else if resolved != dst {
		obs.Log(fmt.Sprintf("📝 Using unique filename: %s", filepath.Base(resolved)))
	}

	adapter, err := o.adapterFor(req.Profile)
	if err != nil {
		obs.Log(fmt.Sprintf("❌ %v", err))
		return false, false
	}

	obs.Log(fmt.Sprintf("Using %s for %s", adapterName(req.Profile), f.Name))
	if err := adapter.Convert(ctx, f.Path, resolved, obs.Log); err != nil {
		log.WithError(err).WithField("file", f.Path).Warn("conversion failed")
		obs.Log(fmt.Sprintf("❌ Conversion failed for %s: %v", f.Name, err))
		return false, false
	}

	size := "?"
	if fi, err := os.Stat(resolved); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	obs.Log(fmt.Sprintf("✅ Successfully converted: %s (%s)", filepath.Base(resolved), size))
	return true, false
}

func (o *Orchestrator) openOutput(dir string, obs Observer, log *logrus.Entry) {
	if o.OpenDir == nil {
		return
	}
	if err := o.OpenDir(dir); err != nil {
		log.WithError(err).Warn("could not open output directory")
		obs.Log(fmt.Sprintf("Could not open directory: %v", err))
	}
}

func adapterName(p Profile) string {
	switch p.ID {
	case ProfileResolve:
		return "Avidemux"
	case ProfileH264:
		return "HandBrake"
	default:
		return p.ID
	}
}
