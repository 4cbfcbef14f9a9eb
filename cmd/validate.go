// Package cmd holds subcommands attached to the root command.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/smazurov/rtmpencoder/internal/encoders"
	"github.com/smazurov/rtmpencoder/internal/engine"
	"github.com/smazurov/rtmpencoder/internal/pipeline"
)

// ErrMissingElements is returned when the engine lacks a required element.
var ErrMissingElements = errors.New("required elements missing")

// EngineFactory opens the media engine. It is called only when a command runs.
type EngineFactory func() (engine.Engine, error)

// CreateValidateCmd creates the validate-elements command, which checks that
// every element the graph needs can be created on this host.
func CreateValidateCmd(newEngine EngineFactory) *cobra.Command {
	var acceleration string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate-elements",
		Short: "Check that every required GStreamer element is installed",
		Long: `Checks the elements used by the encoder graph for the selected acceleration ` +
			`and lists which H.264 encoder variants this host can run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variant, err := encoders.ParseVariant(acceleration)
			if err != nil {
				return err
			}
			eng, err := newEngine()
			if err != nil {
				return fmt.Errorf("failed to initialize media engine: %w", err)
			}
			cmd.SilenceUsage = true
			return validateElements(cmd.OutOrStdout(), eng, variant, quiet)
		},
	}

	cmd.Flags().StringVarP(&acceleration, "acceleration", "a", "", "Encoder variant to check: VAAPI, V4L2 or empty for software")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report missing elements")
	return cmd
}

func validateElements(w io.Writer, eng engine.Engine, variant encoders.Variant, quiet bool) error {
	required, err := pipeline.RequiredElements(variant)
	if err != nil {
		return err
	}
	missing, err := pipeline.MissingElements(eng, variant)
	if err != nil {
		return err
	}

	for _, kind := range required {
		ok := !slices.Contains(missing, kind)
		if !ok || !quiet {
			fmt.Fprintf(w, "%s %s\n", mark(ok), kind)
		}
	}

	if !quiet {
		registry := encoders.DefaultRegistry()
		available := registry.GetAvailable(eng)
		fmt.Fprintln(w, "\nEncoder variants:")
		for _, enc := range registry.GetAll() {
			fmt.Fprintf(w, "%s %-8s %-14s %s\n", mark(slices.Contains(available, enc)), enc.Variant(), enc.Element(), enc.GetDescription())
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w for %s: %v", ErrMissingElements, variant, missing)
	}
	if !quiet {
		fmt.Fprintf(w, "\nAll %d elements for %s are available\n", len(required), variant)
	}
	return nil
}

func mark(ok bool) string {
	if ok {
		return "[ok]     "
	}
	return "[missing]"
}
