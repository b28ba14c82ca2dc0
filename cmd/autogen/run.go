package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/devknowscode/autogen/agent"
	"github.com/devknowscode/autogen/config"
	"github.com/devknowscode/autogen/input"
	"github.com/devknowscode/autogen/model"
	"github.com/devknowscode/autogen/model/anthropic"
	"github.com/devknowscode/autogen/model/openai"
	"github.com/devknowscode/autogen/runner"
	"github.com/devknowscode/autogen/transcript"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Run an assistant on a task and render its stream",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			cmd.SetContext(ctx)

			llm, err := newModel(a.cfg.Model)
			if err != nil {
				return err
			}

			bridge := input.NewBridge()
			team := buildTeam(a, cmd, llm, bridge)

			renderer, err := a.renderer(cmd, bridge)
			if err != nil {
				return err
			}

			recordPath, _ := cmd.Flags().GetString("record")
			var rec *transcript.Recorder
			r := runner.New(team, renderer, func(o *runner.Options) {
				o.Logger = a.logger.WithComponent("runner")
				if recordPath != "" {
					rec = transcript.NewRecorder()
					o.Wrappers = append(o.Wrappers, rec.Wrap)
				}
			})

			defer a.logger.StartTimer("run")()

			_, err = r.Run(ctx, strings.Join(args, " "))
			if rec != nil {
				if werr := rec.WriteFile(recordPath); werr != nil {
					a.logger.Error("failed to write transcript", "path", recordPath, "error", werr)
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("provider", "", "Model provider (mock, openai, anthropic)")
	flags.String("model", "", "Model name; provider default when empty")
	flags.Bool("human", false, "Ask for human feedback after the assistant answers")
	flags.String("record", "", "Write the rendered stream to this transcript file")
	return cmd
}

func buildTeam(a *app, cmd *cobra.Command, llm model.Model, bridge *input.Bridge) agent.Agent {
	assistant := agent.NewAssistantAgent(a.cfg.Agent.Name, llm, func(o *agent.AssistantOptions) {
		o.Instruction = agent.NewInstructionFromText(a.cfg.Agent.Instruction)
		o.EnableStreaming = a.cfg.Agent.Streaming
		o.Logger = a.logger.WithComponent("agent")
	})
	if !a.cfg.Agent.HumanInput {
		return assistant
	}

	user := agent.NewUserProxyAgent("user", func(o *agent.UserProxyOptions) {
		o.Bridge = bridge
		o.Prompt = "Your feedback"
		o.Input = agent.StdinInput(cmd.InOrStdin(), cmd.OutOrStdout())
	})
	return agent.NewSequentialAgent("team", assistant, user)
}

func newModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		name := cfg.Name
		if name == "" {
			name = "mock"
		}
		return model.NewMockModel(name, config.ProviderMock), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			o.BaseURL = cfg.BaseURL
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
