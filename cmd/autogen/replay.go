package main

import (
	"github.com/spf13/cobra"

	"github.com/devknowscode/autogen/input"
	"github.com/devknowscode/autogen/transcript"
)

func newReplayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Render a recorded YAML transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := transcript.Load(args[0])
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetDuration("delay")

			stream := transcript.Stream(cmd.Context(), tr, func(o *transcript.StreamOptions) {
				o.Delay = delay
			})
			_, err = a.render(cmd, stream, input.NewBridge())
			return err
		},
	}
	cmd.Flags().Duration("delay", 0, "Pause between items without their own delay")
	return cmd
}
