package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HMC-Makerspace/loomweave"
	"github.com/HMC-Makerspace/loomweave/draft"
	"github.com/HMC-Makerspace/loomweave/imageutil"
	"github.com/HMC-Makerspace/loomweave/internal/logging"
)

// job is one source image and where its pattern goes.
type job struct {
	index  int
	input  string
	output string
}

// jobResult is what a worker reports for a job.
type jobResult struct {
	job
	status  loomweave.Status
	pattern image.Image
	caption string
	err     error
}

type batchSummary struct {
	converted  int
	noContrast int
	failed     int
}

// pdfName is the sheet written for a directory batch.
const pdfName = "loomweave-drafts.pdf"

// discoverJobs expands input into jobs. A file input maps to output, to a
// file inside output when output is a directory, or to a sibling of the
// input. A directory input converts every supported image directly inside
// it into output (default: the input directory).
func discoverJobs(input, output string, format loomweave.OutputFormat) ([]job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if !info.IsDir() {
		if _, err := imageutil.NormalizeFormat(filepath.Ext(input)); err != nil {
			return nil, fmt.Errorf("unsupported input %s: %w", input, err)
		}
		out := output
		if out == "" {
			out = patternPath(filepath.Dir(input), input, format)
		} else if isDir(out) {
			out = patternPath(out, input, format)
		}
		return []job{{index: 0, input: input, output: out}}, nil
	}

	outDir := output
	if outDir == "" {
		outDir = input
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := imageutil.NormalizeFormat(filepath.Ext(e.Name())); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	jobs := make([]job, 0, len(names))
	for _, name := range names {
		src := filepath.Join(input, name)
		dst := patternPath(outDir, src, format)
		if dst == src {
			// Never overwrite a source that already has the output extension.
			dst = strings.TrimSuffix(dst, format.Extension()) + ".loom" + format.Extension()
		}
		jobs = append(jobs, job{index: len(jobs), input: src, output: dst})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no supported images in %s", input)
	}
	return jobs, nil
}

func patternPath(dir, input string, format loomweave.OutputFormat) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+format.Extension())
}

func previewPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".preview.png"
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// convertFile runs one job to completion.
func convertFile(c *loomweave.Converter, opts *cliOptions, j job) jobResult {
	res := jobResult{job: j}

	data, err := os.ReadFile(j.input)
	if err != nil {
		res.err = fmt.Errorf("failed to read %s: %w", j.input, err)
		return res
	}

	req := opts.request(data, filepath.Ext(j.input))
	p, err := c.Pattern(req)
	if err != nil {
		res.err = err
		return res
	}
	if p == nil {
		res.status = loomweave.StatusNoContrast
		return res
	}

	encoded, err := c.Encode(p, req.Output)
	if err != nil {
		res.err = err
		return res
	}
	if err := os.WriteFile(j.output, encoded, 0644); err != nil {
		res.err = fmt.Errorf("failed to write %s: %w", j.output, err)
		return res
	}

	res.status = loomweave.StatusOK
	res.pattern = p.Gray()
	res.caption = draft.Caption(filepath.Base(j.input), p.Result(req.Output, encoded))

	if opts.preview {
		if err := writePreview(previewPath(j.output), res.pattern, res.caption); err != nil {
			res.err = err
		}
	}
	return res
}

func writePreview(path string, pattern image.Image, caption string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}
	defer f.Close()

	popts := draft.DefaultOptions()
	popts.Caption = caption
	if err := draft.WritePreview(f, pattern, popts); err != nil {
		return fmt.Errorf("failed to write preview %s: %w", path, err)
	}
	return f.Close()
}

func convertWorker(c *loomweave.Converter, opts *cliOptions, tasks <-chan job, results chan<- jobResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range tasks {
		start := time.Now()
		res := convertFile(c, opts, j)
		logging.Debug("%s took %v", j.input, time.Since(start))
		results <- res
	}
}

// runBatch converts jobs on a bounded pool of workers and, when asked,
// gathers the finished patterns into one PDF sheet in job order.
func runBatch(c *loomweave.Converter, opts *cliOptions, jobs []job) batchSummary {
	tasks := make(chan job)
	results := make(chan jobResult, len(jobs))

	wg := &sync.WaitGroup{}
	for i := 0; i < min(opts.workers, len(jobs)); i++ {
		wg.Add(1)
		go convertWorker(c, opts, tasks, results, wg)
	}

	go func() {
		for _, j := range jobs {
			tasks <- j
		}
		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var summary batchSummary
	pages := make([]*draft.Page, len(jobs))
	for res := range results {
		switch {
		case res.err != nil:
			summary.failed++
			logging.Error("%s: %v", res.input, res.err)
		case res.status == loomweave.StatusNoContrast:
			summary.noContrast++
			logging.Warn("%s: %s, skipped", res.input, loomweave.NoContrastMessage)
		default:
			summary.converted++
			logging.Info("%s -> %s", res.input, res.output)
		}
		if res.pattern != nil {
			pages[res.index] = &draft.Page{
				Name:    filepath.Base(res.input),
				Pattern: res.pattern,
				Caption: res.caption,
			}
		}
	}

	if opts.pdf {
		if err := writeSheet(sheetPath(opts, jobs), pages); err != nil {
			summary.failed++
			logging.Error("%v", err)
		}
	}
	return summary
}

func sheetPath(opts *cliOptions, jobs []job) string {
	if len(jobs) == 1 && !isDir(opts.input) {
		return strings.TrimSuffix(jobs[0].output, filepath.Ext(jobs[0].output)) + ".pdf"
	}
	return filepath.Join(filepath.Dir(jobs[0].output), pdfName)
}

func writeSheet(path string, pages []*draft.Page) error {
	var ordered []draft.Page
	for _, p := range pages {
		if p != nil {
			ordered = append(ordered, *p)
		}
	}
	if len(ordered) == 0 {
		logging.Warn("no patterns for the PDF sheet")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PDF: %w", err)
	}
	defer f.Close()

	if err := draft.WriteSheet(f, ordered, draft.DefaultSheetOptions()); err != nil {
		return err
	}
	logging.Info("draft sheet written to %s", path)
	return f.Close()
}
