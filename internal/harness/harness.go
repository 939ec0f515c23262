// Package harness runs expectation files: it loads the document each
// file names, builds the declared chains and aggregates the outcomes.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jacoelho/jsonexpect/internal/checkfile"
	"github.com/jacoelho/jsonexpect/internal/config"
	"github.com/jacoelho/jsonexpect/internal/ratelimit"
	"github.com/jacoelho/jsonexpect/internal/results"
)

type Runner struct {
	config  *config.Config
	client  *http.Client
	limiter *ratelimit.Limiter
}

func New(cfg *config.Config) *Runner {
	return &Runner{
		config:  cfg,
		client:  cfg.HTTPClient(),
		limiter: ratelimit.New(cfg.RateLimit),
	}
}

// Run executes every configured expectation file in sequence and
// prints a summary. It returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	summary := results.NewSummary(uuid.New().String(), len(r.config.CheckFiles))
	start := time.Now()

	for _, filename := range r.config.CheckFiles {
		if ctx.Err() != nil {
			summary.Add(results.FileResult{Filename: filename, Error: ctx.Err()})
			continue
		}

		fileStart := time.Now()
		chainCount, err := r.runFile(ctx, filename)
		summary.Add(results.FileResult{
			Filename:   filename,
			ChainCount: chainCount,
			Duration:   time.Since(fileStart),
			Error:      err,
		})
	}

	summary.SetTotalDuration(time.Since(start))
	if err := summary.FormatText(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to format results: %v\n", err)
		return 1
	}

	if summary.FailedFiles > 0 {
		return 1
	}
	return 0
}

func (r *Runner) runFile(ctx context.Context, filename string) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	file, err := checkfile.Parse(f)
	if err != nil {
		return 0, err
	}

	doc, err := r.loadDocument(ctx, filepath.Dir(filename), file.Document)
	if err != nil {
		return 0, err
	}

	return r.runChains(file, doc)
}

// document is a loaded source: either raw JSON text to parse per
// chain, or an already-structured inline value.
type document struct {
	text    string
	value   any
	isValue bool
}

func (r *Runner) loadDocument(ctx context.Context, baseDir string, source checkfile.Document) (document, error) {
	switch {
	case source.HasInline:
		return document{value: source.Inline, isValue: true}, nil

	case source.File != "":
		path := source.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return document{}, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		r.debugDocument("document "+path, data)
		return document{text: string(data)}, nil

	case source.URL != "":
		data, err := r.fetchDocument(ctx, source.URL)
		if err != nil {
			return document{}, err
		}
		r.debugDocument("document "+source.URL, data)
		return document{text: string(data)}, nil

	default:
		return document{}, errors.New("expectation file names no document source")
	}
}

func (r *Runner) fetchDocument(ctx context.Context, url string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := r.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch document %s: status %d", url, response.StatusCode)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", url, err)
	}

	return data, nil
}

func (r *Runner) debugDocument(description string, data []byte) {
	if !r.config.Debug {
		return
	}
	_ = results.FormatDebug(os.Stdout, description, data)
}
