package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"subextract/internal/config"
)

const (
	ExitOK         = 0
	ExitCLIError   = 1
	ExitMissingDep = 2
	ExitPartial    = 3 // run finished but some files errored or timed out
	ExitCanceled   = 130
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "subextract [paths...]",
		Short: "Extract subtitle streams from movie files",
		Long: "subextract scans movie files and folders, probes their subtitle streams with ffprobe " +
			"and writes each selected stream next to the movie with ffmpeg, optionally running an " +
			"external OCR tool for image-based subtitles.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := config.Init(root); err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		return nil
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().BoolP("verbose", "v", false, "Log subprocess commands and output")
	root.PersistentFlags().String("ffmpeg", "", "Path to ffmpeg (default: from PATH)")
	root.PersistentFlags().String("ffprobe", "", "Path to ffprobe (default: from PATH)")

	// Run flags on root too, so `subextract <path>` works without a subcommand.
	config.RegisterRunFlags(root.Flags())

	root.AddCommand(newRunCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newLangsCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
