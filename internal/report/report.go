// Package report accumulates per-file outcomes of an extraction run and
// renders the end-of-run summary.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"subextract/internal/model"
	"subextract/internal/util/format"
)

// Report is the outcome of one run. It is written by the pipeline
// goroutine only and read after the run returns.
type Report struct {
	RunID string
	Total int

	engaged   int
	extracted int
	aborted   bool

	order     []string // file paths in first-seen order
	names     map[string]string
	outcomes  map[string]model.Outcome
	errors    map[string][]string
	perFile   map[string]int
	errorSeen []string
}

// New returns an empty report for total candidate files.
func New(runID string, total int) *Report {
	return &Report{
		RunID:    runID,
		Total:    total,
		names:    map[string]string{},
		outcomes: map[string]model.Outcome{},
		errors:   map[string][]string{},
		perFile:  map[string]int{},
	}
}

func (r *Report) touch(f model.MediaFile) {
	if _, ok := r.names[f.Path]; ok {
		return
	}
	r.names[f.Path] = f.Base()
	r.order = append(r.order, f.Path)
}

// Classify records o for f unless f already has an outcome. It reports
// whether the classification was recorded.
func (r *Report) Classify(f model.MediaFile, o model.Outcome) bool {
	if _, done := r.outcomes[f.Path]; done {
		return false
	}
	r.touch(f)
	r.outcomes[f.Path] = o
	return true
}

// AddError appends an error note for f without classifying it.
func (r *Report) AddError(f model.MediaFile, note string) {
	r.touch(f)
	if len(r.errors[f.Path]) == 0 {
		r.errorSeen = append(r.errorSeen, f.Path)
	}
	r.errors[f.Path] = append(r.errors[f.Path], note)
}

// AddExtracted counts n successfully written streams for f.
func (r *Report) AddExtracted(f model.MediaFile, n int) {
	if n <= 0 {
		return
	}
	r.touch(f)
	r.perFile[f.Path] += n
	r.extracted += n
}

// Engage marks one more file as fully advanced.
func (r *Report) Engage() { r.engaged++ }

// Abort marks the run as ended by cancellation.
func (r *Report) Abort() { r.aborted = true }

// Aborted reports whether the run was cancelled.
func (r *Report) Aborted() bool { return r.aborted }

// Engaged returns the number of files fully advanced.
func (r *Report) Engaged() int { return r.engaged }

// Extracted returns the number of subtitle streams written.
func (r *Report) Extracted() int { return r.extracted }

// Outcome returns the classification of the file at path.
func (r *Report) Outcome(path string) (model.Outcome, bool) {
	o, ok := r.outcomes[path]
	return o, ok
}

// Errors returns the error notes recorded for the file at path.
func (r *Report) Errors(path string) []string {
	return append([]string(nil), r.errors[path]...)
}

// ExtractedFor returns the streams written for the file at path.
func (r *Report) ExtractedFor(path string) int { return r.perFile[path] }

// Files returns the basenames classified as o, in processing order.
func (r *Report) Files(o model.Outcome) []string {
	var out []string
	for _, p := range r.order {
		if got, ok := r.outcomes[p]; ok && got == o {
			out = append(out, r.names[p])
		}
	}
	return out
}

// Errored returns the basenames in the errored category: files classified
// Errored plus unclassified files that carry error notes.
func (r *Report) Errored() []string {
	var out []string
	for _, p := range r.order {
		o, classified := r.outcomes[p]
		if (classified && o == model.OutcomeErrored) || (!classified && len(r.errors[p]) > 0) {
			out = append(out, r.names[p])
		}
	}
	return out
}

// Count returns how many files are classified as o.
func (r *Report) Count(o model.Outcome) int {
	if o == model.OutcomeErrored {
		return len(r.Errored())
	}
	return len(r.Files(o))
}

// HasFailures reports whether any file timed out or errored.
func (r *Report) HasFailures() bool {
	return r.Count(model.OutcomeTimedOut) > 0 || r.Count(model.OutcomeErrored) > 0
}

// Summary is the single final line for the run.
func (r *Report) Summary() string {
	if r.aborted {
		return fmt.Sprintf("Run aborted: %d/%d files engaged, %d subtitle stream(s) extracted before cancellation.",
			r.engaged, r.Total, r.extracted)
	}
	return fmt.Sprintf("Run complete: %d/%d files engaged, %d subtitle stream(s) extracted.",
		r.engaged, r.Total, r.extracted)
}

// Breakdown returns the categorized lines appended to the log after a
// completed run. Aborted runs have no breakdown.
func (r *Report) Breakdown() []string {
	if r.aborted {
		return nil
	}
	var lines []string
	for _, o := range model.Outcomes {
		var files []string
		if o == model.OutcomeErrored {
			files = r.Errored()
		} else {
			files = r.Files(o)
		}
		if len(files) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%d): %s", titleCase(o.String()), len(files), strings.Join(files, ", ")))
	}
	for _, p := range r.errorSeen {
		for _, note := range r.errors[p] {
			lines = append(lines, fmt.Sprintf("  %s: %s", r.names[p], note))
		}
	}
	return lines
}

// Table renders per-category counts. Aborted runs render the summary only.
func (r *Report) Table() string {
	if r.aborted {
		return r.Summary()
	}
	rows := make([][]string, 0, len(model.Outcomes)+1)
	for _, o := range model.Outcomes {
		rows = append(rows, []string{titleCase(o.String()), strconv.Itoa(r.Count(o))})
	}
	rows = append(rows, []string{"Streams extracted", strconv.Itoa(r.extracted)})
	return format.RenderTable([]string{"Outcome", "Files"}, rows, []format.Align{format.AlignLeft, format.AlignRight})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
