package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"subextract/internal/extractor"
	"subextract/internal/language"
	"subextract/internal/library"
	"subextract/internal/logging"
	"subextract/internal/streams"
	"subextract/internal/util"
	"subextract/internal/util/format"
)

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "langs [paths...]",
		Short:         "List the subtitle languages found across movie files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings()
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{Console: cmd.ErrOrStderr(), NoColor: !colorStderr(), Verbose: st.Verbose})
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			files, err := library.Scan(args, log.Logger)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			ex := extractor.New(extractor.Options{
				FFprobePath:  st.FFprobePath,
				FFmpegPath:   st.FFmpegPath,
				ProbeTimeout: st.ProbeTimeout,
				Runner:       util.NewDefaultRunner(nil),
				Logger:       log.Logger,
			})

			seen := map[string]int{}
			for _, f := range files {
				if err := cmd.Context().Err(); err != nil {
					return &ExitError{Code: ExitCanceled, Err: err}
				}
				raw, err := ex.ProbeLanguages(cmd.Context(), f.Path)
				if err != nil {
					log.Warn().Err(err).Str("file", f.Base()).Msg("language probe failed")
					continue
				}
				for _, code := range streams.ParseLanguages(raw) {
					seen[code]++
				}
			}

			codes := make([]string, 0, len(seen))
			for c := range seen {
				codes = append(codes, c)
			}
			sort.Strings(codes)

			out := cmd.OutOrStdout()
			if len(codes) == 0 {
				fmt.Fprintln(out, "No tagged subtitle languages found.")
				return nil
			}
			rows := make([][]string, 0, len(codes))
			for _, c := range codes {
				rows = append(rows, []string{c, language.Name(c), strconv.Itoa(seen[c])})
			}
			fmt.Fprintln(out, format.RenderTable(
				[]string{"Code", "Language", "Files"},
				rows,
				[]format.Align{format.AlignLeft, format.AlignLeft, format.AlignRight},
			))
			return nil
		},
	}
}
