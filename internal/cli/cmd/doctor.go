package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"subextract/internal/config"
	"subextract/internal/dirs"
	"subextract/internal/ocr"
	"subextract/internal/util/deps"
	"subextract/internal/util/format"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffmpeg, ffprobe, OCR tool)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				rows    [][]string
				missing []error
			)
			check := func(name, custom, fallback string) {
				p, err := deps.FindTool(custom, fallback)
				if err != nil {
					missing = append(missing, err)
					rows = append(rows, []string{name, custom, "missing"})
					return
				}
				rows = append(rows, []string{name, p, "ok"})
			}

			check("ffmpeg", viper.GetString(config.KeyFFmpeg), "ffmpeg")
			check("ffprobe", viper.GetString(config.KeyFFprobe), "ffprobe")

			if viper.GetBool(config.KeyOCREnabled) {
				tpl, err := ocr.ParseTemplate(viper.GetString(config.KeyOCRCommand))
				if err != nil {
					missing = append(missing, err)
					rows = append(rows, []string{"ocr", "", "invalid template"})
				} else {
					check("ocr", tpl.Program(), tpl.Program())
				}
			} else {
				rows = append(rows, []string{"ocr", "", "disabled"})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, format.RenderTable([]string{"Tool", "Path", "Status"}, rows, nil))
			if cfg := viper.ConfigFileUsed(); cfg != "" {
				fmt.Fprintf(out, "Config:    %s\n", cfg)
			}
			if st, err := dirs.StateDir(); err == nil {
				fmt.Fprintf(out, "State dir: %s\n", st)
			}
			if len(missing) > 0 {
				return &ExitError{Code: ExitMissingDep, Err: errors.Join(missing...)}
			}
			return nil
		},
	}
}
