package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queue-sim/sim/scenario"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List the built-in scenarios, or print one as YAML",
	Long:  "Without arguments, list the built-in scenarios. With a name, print that scenario as a YAML file usable with run --scenario.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			listPresets(os.Stdout)
			return
		}
		if err := writePreset(os.Stdout, args[0]); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func listPresets(w io.Writer) {
	for _, name := range scenario.PresetNames() {
		fmt.Fprintln(w, name)
	}
}

func writePreset(w io.Writer, name string) error {
	spec, err := scenario.Preset(name)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("YAML marshal failed: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
