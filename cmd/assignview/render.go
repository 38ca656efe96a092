package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vcrobe/assignview/panel"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/vdom"
)

func newRenderCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "render [state-file]",
		Short: "Print the panel HTML for a ViewState",
		Long: `Reads a ViewState from a YAML or JSON file (or stdin when the file is
"-" or omitted) and prints the markup the panel would mount.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			state, err := readState(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			c.logger.Debug("rendering state")
			if err := vdom.RenderHTML(cmd.OutOrStdout(), panel.View(state)); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}
}

// readState decodes a ViewState. YAML is a superset of JSON, so one decoder
// covers both formats.
func readState(path string, stdin io.Reader) (protocol.ViewState, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return protocol.ViewState{}, fmt.Errorf("read state: %w", err)
	}
	var state protocol.ViewState
	if err := yaml.Unmarshal(raw, &state); err != nil {
		return protocol.ViewState{}, fmt.Errorf("parse state %s: %w", path, err)
	}
	return state, nil
}
