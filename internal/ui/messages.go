package ui

import (
	"subextract/internal/progress"
	"subextract/internal/report"
)

type updateMsg struct {
	U progress.Update
}

type toolLogMsg struct {
	L progress.Log
}

type resultMsg struct {
	R progress.Result
}

// logLineMsg carries one formatted line from the run logger.
type logLineMsg struct {
	Line string
}

type slowMsg struct{}

type runDoneMsg struct {
	Report *report.Report
}
