package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subextract/internal/model"
)

func mf(name string) model.MediaFile {
	return model.MediaFile{Path: "/lib/" + name}
}

func TestClassify_FirstWins(t *testing.T) {
	r := New("run", 2)
	a := mf("a.mkv")

	assert.True(t, r.Classify(a, model.OutcomeTimedOut))
	assert.False(t, r.Classify(a, model.OutcomeSucceeded))

	o, ok := r.Outcome(a.Path)
	require.True(t, ok)
	assert.Equal(t, model.OutcomeTimedOut, o)
	assert.Equal(t, []string{"a.mkv"}, r.Files(model.OutcomeTimedOut))
	assert.Empty(t, r.Files(model.OutcomeSucceeded))
}

func TestErrors_MultipleNotesSingleEntry(t *testing.T) {
	r := New("run", 1)
	a := mf("a.mkv")

	r.AddError(a, "stream 2: extraction failed")
	r.AddError(a, "stream 3: unsupported")
	r.Classify(a, model.OutcomeErrored)

	assert.Equal(t, []string{"a.mkv"}, r.Errored())
	assert.Len(t, r.Errors(a.Path), 2)
	assert.Equal(t, 1, r.Count(model.OutcomeErrored))
	assert.True(t, r.HasFailures())
}

func TestCategoriesAreDisjoint(t *testing.T) {
	r := New("run", 5)
	files := []model.MediaFile{mf("1.mkv"), mf("2.mkv"), mf("3.mkv"), mf("4.mkv"), mf("5.mkv")}
	for i, o := range model.Outcomes {
		r.Classify(files[i], o)
		// a late second classification never moves a file
		r.Classify(files[i], model.OutcomeSucceeded)
	}

	seen := map[string]int{}
	for _, o := range model.Outcomes {
		var names []string
		if o == model.OutcomeErrored {
			names = r.Errored()
		} else {
			names = r.Files(o)
		}
		for _, n := range names {
			seen[n]++
		}
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, name)
	}
	assert.Len(t, seen, 5)
}

func TestSummary(t *testing.T) {
	r := New("run", 10)
	a := mf("a.mkv")
	r.AddExtracted(a, 2)
	r.Classify(a, model.OutcomeSucceeded)
	r.Engage()
	r.Classify(mf("b.mkv"), model.OutcomeNoSubtitles)
	r.Engage()

	assert.Equal(t, "Run complete: 2/10 files engaged, 2 subtitle stream(s) extracted.", r.Summary())
	lines := r.Breakdown()
	require.Len(t, lines, 2)
	assert.Equal(t, "Succeeded (1): a.mkv", lines[0])
	assert.Equal(t, "No subtitles (1): b.mkv", lines[1])
	assert.Equal(t, 2, r.ExtractedFor(a.Path))

	table := r.Table()
	assert.Contains(t, table, "Streams extracted")
	assert.Contains(t, table, "Skipped (existing)")
}

func TestSummary_Aborted(t *testing.T) {
	r := New("run", 10)
	r.AddExtracted(mf("a.mkv"), 1)
	r.Classify(mf("a.mkv"), model.OutcomeSucceeded)
	r.Engage()
	r.Abort()

	assert.True(t, r.Aborted())
	assert.True(t, strings.HasPrefix(r.Summary(), "Run aborted: 1/10"))
	assert.Nil(t, r.Breakdown())
	assert.Equal(t, r.Summary(), r.Table())
}
