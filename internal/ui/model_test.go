package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"subextract/internal/model"
	"subextract/internal/progress"
	"subextract/internal/report"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestModel_CancelWaitsForRun(t *testing.T) {
	canceled := 0
	m := NewModel(3, func() { canceled++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if canceled != 1 || !m.canceling {
		t.Fatalf("q should cancel once, canceled=%d", canceled)
	}
	if cmd != nil {
		t.Fatalf("q must not quit before the run stops")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if canceled != 1 {
		t.Fatalf("second key should not cancel again")
	}

	rep := report.New("run", 3)
	rep.Abort()
	m, cmd = update(t, m, runDoneMsg{Report: rep})
	if cmd == nil {
		t.Fatal("run completion should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if m.Report() != rep {
		t.Fatal("report not kept")
	}
}

func TestModel_UpdatesAndCounts(t *testing.T) {
	m := NewModel(2, nil)

	m, _ = update(t, m, updateMsg{U: progress.Update{Stage: progress.StageExtracting, Percent: 50, File: "Movie.mkv", Message: "Extracting eng #2"}})
	m, _ = update(t, m, updateMsg{U: progress.Update{Stage: progress.StageExtracting, Percent: -1, Message: "Extracting eng #2 0:00:10"}})
	if m.percent != 50 {
		t.Errorf("negative percent must keep the last value, got %v", m.percent)
	}
	if m.status != "Extracting eng #2 0:00:10" || m.file != "Movie.mkv" {
		t.Errorf("status=%q file=%q", m.status, m.file)
	}

	m, _ = update(t, m, resultMsg{R: progress.Result{File: "Movie.mkv", Outcome: model.OutcomeSucceeded}})
	m, _ = update(t, m, resultMsg{R: progress.Result{File: "Other.mkv", Outcome: model.OutcomeErrored}})
	if m.counts[model.OutcomeSucceeded] != 1 || m.counts[model.OutcomeErrored] != 1 {
		t.Errorf("counts = %v", m.counts)
	}

	view := m.View()
	for _, want := range []string{"subextract", "Movie.mkv", "succeeded: 1", "errored: 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_LogRingAndSlowNotice(t *testing.T) {
	m := NewModel(1, nil)
	for i := 0; i < logLines+5; i++ {
		m, _ = update(t, m, logLineMsg{Line: fmt.Sprintf("line %d\n", i)})
	}
	m, _ = update(t, m, toolLogMsg{L: progress.Log{Line: ""}})
	if len(m.logs) != logLines {
		t.Fatalf("log ring len = %d, want %d", len(m.logs), logLines)
	}
	if m.logs[len(m.logs)-1] != fmt.Sprintf("line %d", logLines+4) {
		t.Errorf("last log = %q", m.logs[len(m.logs)-1])
	}

	m, _ = update(t, m, slowMsg{})
	if !strings.Contains(m.View(), "taking a while") {
		t.Error("slow notice not shown")
	}
}

func TestDefaultStyles_CoverOutcomesAndStages(t *testing.T) {
	st := defaultStyles()
	for _, o := range model.Outcomes {
		if _, ok := st.Outcome[o]; !ok {
			t.Errorf("no style for outcome %v", o)
		}
	}
	stages := []progress.Stage{
		progress.StageScanning, progress.StageProbing, progress.StageExtracting,
		progress.StageOCR, progress.StageCompleted, progress.StageCanceled, progress.StageError,
	}
	for _, s := range stages {
		if _, ok := st.Stage[s]; !ok {
			t.Errorf("no style for stage %v", s)
		}
	}
	if got := st.stage(progress.Stage("idle")).Render("x"); got != st.Info.Render("x") {
		t.Errorf("unknown stage should fall back to Info")
	}
}
