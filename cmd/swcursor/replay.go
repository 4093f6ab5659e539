package main

import (
	"fmt"
	"io"

	"github.com/1broseidon/swcursor/internal/replay"
	"github.com/1broseidon/swcursor/internal/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type replayReport struct {
	Script    string        `yaml:"script"`
	Stats     session.Stats `yaml:"stats"`
	Commits   int           `yaml:"surface_commits"`
	Immediate [2]int        `yaml:"immediate"`
	Synced    [2]int        `yaml:"synced"`
	Snapshot  string        `yaml:"snapshot,omitempty"`
}

func newReplayCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var out string
	var scale int

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Play a recorded event script against an in-memory surface",
		Long: "replay runs the renderer headless: pointer, frame and window events come from a YAML\n" +
			"script and the final buffer can be written as a PNG snapshot.",
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(flags)
			if err != nil {
				return err
			}
			cfg := res.Config
			logger, err := newLogger(cfg, stderr)
			if err != nil {
				return err
			}

			script, err := replay.LoadScript(args[0])
			if err != nil {
				return err
			}
			backend, err := replay.New(script, cfg.Width, cfg.Height, logger)
			if err != nil {
				return err
			}
			opts, err := session.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			s, err := session.New(backend, opts, logger)
			if err != nil {
				return err
			}
			if err := s.Run(cmd.Context()); err != nil {
				return err
			}

			report := replayReport{
				Script:  args[0],
				Stats:   s.Stats(),
				Commits: backend.Recorder().Commits(),
			}
			report.Immediate[0], report.Immediate[1] = s.Immediate().Position()
			report.Synced[0], report.Synced[1] = s.Synced().Position()

			if out != "" {
				if err := backend.WriteSnapshot(out, scale); err != nil {
					return err
				}
				report.Snapshot = out
			}

			data, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			_, err = stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write the final buffer as PNG to this path")
	cmd.Flags().IntVar(&scale, "scale", 1, "Integer scale factor for the snapshot")
	return cmd
}
