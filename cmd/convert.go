package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/config"
	"github.com/sumanbiswas123/image-converter/pkg/hexcolor"
)

var (
	convertFormat string
	convertBG     string
	convertOutDir string
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <image>",
	Short: "Convert a single image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var bg *string
		if convertBG != "" {
			if _, err := hexcolor.Parse(convertBG); err != nil {
				return err
			}
			stripped := hexcolor.Strip(convertBG)
			bg = &stripped
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		cfg := config.Load()
		if convertOutDir != "" {
			cfg.OutputDir = convertOutDir
		}
		logger, closeLogger, err := newCLILogger(cfg)
		if err != nil {
			return err
		}
		defer closeLogger()

		b := backend.NewNative(cfg, backend.WithLogger(logger))
		defer b.Close()

		out, err := b.ConvertImage(context.Background(), data, filepath.Base(path), convertFormat, bg)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved: %s\n", out)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "jpg", "target format: jpg, png, or webp")
	convertCmd.Flags().StringVar(&convertBG, "bg", "", "background hex color for transparent sources on jpg output, e.g. #1a2b3c")
	convertCmd.Flags().StringVarP(&convertOutDir, "output", "o", "", "destination folder for the converted file")

	rootCmd.AddCommand(convertCmd)
}
