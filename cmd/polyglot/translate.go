package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	translateSource string
	translateTarget string
	translateOutput string
)

var translateCmd = &cobra.Command{
	Use:   "translate <file.pptx>",
	Short: "Translate a PowerPoint file, preserving its formatting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := buildModel()
		if err != nil {
			return err
		}

		input, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		job := buildTranslateJob(model)
		job.Progress = func(slideIndex, totalSlides int) {
			fmt.Printf("\rTranslating slide %d/%d...", slideIndex, totalSlides)
		}

		translated, err := job.Translate(cmd.Context(), input, translateSource, translateTarget)
		fmt.Println()
		if err != nil {
			return err
		}

		output := translateOutput
		if output == "" {
			output = filepath.Join(filepath.Dir(args[0]), "translated_"+filepath.Base(args[0]))
		}
		if err := os.WriteFile(output, translated, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("Saved translated file to %s\n", output)
		return nil
	},
}

func init() {
	translateCmd.Flags().StringVar(&translateSource, "from", "", "source language (required)")
	translateCmd.Flags().StringVar(&translateTarget, "to", "", "target language (required)")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "output file (default: translated_<input>)")
	translateCmd.MarkFlagRequired("from")
	translateCmd.MarkFlagRequired("to")
}
