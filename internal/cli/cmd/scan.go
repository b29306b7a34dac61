package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"subextract/internal/library"
	"subextract/internal/logging"
	"subextract/internal/util/format"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "scan [paths...]",
		Short:         "List movie files and whether subtitles already exist next to them",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logging.Options{Console: cmd.ErrOrStderr(), NoColor: !colorStderr()})
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			files, err := library.Scan(args, log.Logger)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			rows := make([][]string, 0, len(files))
			ready := 0
			for _, f := range files {
				status := "Ready to extract"
				has, err := library.HasExistingSubtitles(f)
				switch {
				case err != nil:
					status = "Unknown: " + err.Error()
				case has:
					status = "Subtitles present"
				default:
					ready++
				}
				rows = append(rows, []string{f.Base(), f.Dir(), status})
			}

			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, format.RenderTable([]string{"File", "Directory", "Status"}, rows, nil))
			}
			fmt.Fprintf(out, "%d movie file(s), %d without subtitles.\n", len(files), ready)
			return nil
		},
	}
}
