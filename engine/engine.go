package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/FitrahHaque/Repetition-Engine/compressor/lz77"
	"github.com/FitrahHaque/Repetition-Engine/logging"
	"github.com/FitrahHaque/Repetition-Engine/repetition"
	"github.com/FitrahHaque/Repetition-Engine/tokenize"
	pb "github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
)

type Options struct {
	Format string
	Fields []string
	// Window of 0 looks back over the whole sequence.
	Window int
	// Progress receives a progress bar when set.
	Progress io.Writer
}

type Engine struct {
	opts Options
	log  logging.Logger
}

func New(opts Options, log logging.Logger) *Engine {
	if log == nil {
		log = &logging.NoOpLogger{}
	}
	return &Engine{opts: opts, log: log}
}

type source struct {
	path   string
	tokens []string
}

type outcome struct {
	report *Report
	err    error
}

// DetectFiles runs detection on every file concurrently. Reports come back
// in the order of paths; the first failing file aborts the run.
func (e *Engine) DetectFiles(ctx context.Context, paths []string) ([]*Report, error) {
	sources := make([]source, len(paths))
	total := 0
	for i, path := range paths {
		tokens, err := e.load(path)
		if err != nil {
			return nil, err
		}
		sources[i] = source{path: path, tokens: tokens}
		// one more step for the end marker
		total += len(tokens) + 1
	}

	bar := e.startBar(total)
	defer func() {
		if bar != nil {
			bar.Finish()
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	outcomeChannels := make([]chan outcome, len(sources))
	for i, src := range sources {
		outcomeChannels[i] = make(chan outcome, 1)
		go func(out chan<- outcome, src source) {
			report, err := e.detect(ctx, src.path, src.tokens, bar)
			out <- outcome{report: report, err: err}
		}(outcomeChannels[i], src)
	}

	reports := make([]*Report, len(sources))
	var firstErr error
	for i, channel := range outcomeChannels {
		o := <-channel
		if o.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", sources[i].path, o.err)
			cancel()
		}
		reports[i] = o.report
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return reports, nil
}

func (e *Engine) DetectFile(ctx context.Context, path string) (*Report, error) {
	reports, err := e.DetectFiles(ctx, []string{path})
	if err != nil {
		return nil, err
	}
	return reports[0], nil
}

// DetectTokens runs detection on tokens that did not come from a file.
func (e *Engine) DetectTokens(ctx context.Context, name string, tokens []string) (*Report, error) {
	return e.detect(ctx, name, tokens, nil)
}

func (e *Engine) load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tokens, err := tokenize.Read(e.opts.Format, f, e.opts.Fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tokens, nil
}

func (e *Engine) startBar(total int) *pb.ProgressBar {
	if e.opts.Progress == nil {
		return nil
	}
	return pb.New(total).SetWriter(e.opts.Progress).Start()
}

func (e *Engine) detect(ctx context.Context, name string, tokens []string, bar *pb.ProgressBar) (*Report, error) {
	id := uuid.NewString()
	log := e.log.WithFields(logging.Fields{"id": id, "source": name})
	window := e.opts.Window
	if window <= 0 {
		window = len(tokens) + 1
	}
	log.Debug("detecting repetitions", logging.Fields{"tokens": len(tokens), "window": window})

	var opts []lz77.Option
	if bar != nil {
		opts = append(opts, lz77.WithStep(func(step lz77.Triple) {
			bar.Add(step.Consumed())
		}))
	}
	res, err := repetition.Detect(ctx, tokens, window, opts...)
	if err != nil {
		log.Error(err, "detection failed")
		return nil, err
	}

	report := newReport(id, name, tokens, window, res)
	log.Info("detected repetitions", logging.Fields{
		"groups": len(report.Groups),
		"steps":  report.Stats.Steps,
		"copies": report.Stats.Copies,
	})
	return report, nil
}
