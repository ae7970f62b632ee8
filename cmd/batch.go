package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/config"
	"github.com/sumanbiswas123/image-converter/internal/convert"
	"github.com/sumanbiswas123/image-converter/internal/tui"
	"github.com/sumanbiswas123/image-converter/pkg/hexcolor"
)

var (
	batchFormat string
	batchBG     string
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <folder>",
	Short: "Convert every image in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := args[0]

		format, err := convert.ParseFormat(batchFormat)
		if err != nil {
			return err
		}
		var bg *string
		if batchBG != "" {
			if _, err := hexcolor.Parse(batchBG); err != nil {
				return err
			}
			stripped := hexcolor.Strip(batchBG)
			bg = &stripped
		}

		files, err := backend.ImagePaths(folder)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no images found in %s", folder)
		}

		cfg := config.Load()
		logger, closeLogger, err := newCLILogger(cfg)
		if err != nil {
			return err
		}
		defer closeLogger()

		b := backend.NewNative(cfg, backend.WithLogger(logger))
		defer b.Close()

		start := time.Now()
		if err := b.ConvertAll(context.Background(), backend.BatchJob{
			Files:   files,
			Format:  string(format),
			BGColor: bg,
		}); err != nil {
			return err
		}

		failed := 0
		for ev := range b.Events() {
			line := batchLineStyle
			if ev.Status == backend.StatusError {
				line = batchErrorStyle
				failed++
			}
			fmt.Fprintf(os.Stdout, "%s %s\n",
				batchPctStyle.Render(fmt.Sprintf("%3d%%", ev.Progress)),
				line.Render(ev.Message),
			)
			if ev.Status == backend.StatusComplete {
				break
			}
		}

		rows := []tui.SummaryRow{
			{Label: "Images", Value: fmt.Sprintf("%d", len(files))},
			{Label: "Converted", Value: fmt.Sprintf("%d", len(files)-failed)},
			{Label: "Failed", Value: fmt.Sprintf("%d", failed)},
			{Label: "Elapsed", Value: time.Since(start).Round(time.Millisecond).String()},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		return nil
	},
}

var (
	batchPctStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	batchLineStyle  = lipgloss.NewStyle().Foreground(tui.ColorInk)
	batchErrorStyle = lipgloss.NewStyle().Foreground(tui.ColorError)
)

func init() {
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "jpg", "target format: jpg, png, or webp")
	batchCmd.Flags().StringVar(&batchBG, "bg", "", "background hex color applied to transparent sources on jpg output")

	rootCmd.AddCommand(batchCmd)
}
