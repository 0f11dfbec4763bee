// Package dependency wires the agent's services using go.uber.org/dig.
package dependency

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/coral-agents/coral-interface-agent/internal/agent"
	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/coral"
	"github.com/coral-agents/coral-interface-agent/internal/diagnostics"
	"github.com/coral-agents/coral-interface-agent/internal/human"
	"github.com/coral-agents/coral-interface-agent/internal/providers"
	"github.com/coral-agents/coral-interface-agent/internal/retry"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
	"github.com/coral-agents/coral-interface-agent/internal/tools"
)

// Container holds the resolved service singletons.
// Callers use the typed getters; they never need to import dig directly.
type Container struct {
	client      *coral.Client
	provider    schema.LLMProvider
	runner      *agent.Runner
	diagnostics *diagnostics.Service
}

func (c *Container) Client() *coral.Client             { return c.client }
func (c *Container) Provider() schema.LLMProvider      { return c.provider }
func (c *Container) Runner() *agent.Runner             { return c.runner }
func (c *Container) Diagnostics() *diagnostics.Service { return c.diagnostics }

// Close releases the server connection.
func (c *Container) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// coralTools carries the discovered remote tool set through the graph.
type coralTools []schema.Tool

// New dials the Coral Server and wires all services from cfg.
// ctx covers connection establishment and tool discovery; a dial failure
// after the configured attempts is returned as-is and is fatal to startup.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	d := dig.New()

	provide := []any{
		func() *config.Config { return cfg },
		newProvider,
		func(cfg *config.Config) (*coral.Client, error) { return dialServer(ctx, cfg) },
		func(client *coral.Client) (coralTools, error) { return discoverTools(ctx, client) },
		newAsker,
		newToolList,
		newRunner,
		newDiagnostics,
	}
	for _, ctor := range provide {
		if err := d.Provide(ctor); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		client *coral.Client,
		provider schema.LLMProvider,
		runner *agent.Runner,
		diag *diagnostics.Service,
	) {
		result = &Container{
			client:      client,
			provider:    provider,
			runner:      runner,
			diagnostics: diag,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) schema.LLMProvider {
	return providers.New(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.Name, cfg.Model.Provider)
}

func dialServer(ctx context.Context, cfg *config.Config) (*coral.Client, error) {
	serverURL, err := coral.ServerURL(cfg.ServerURL, cfg.AgentID, cfg.AgentDescription)
	if err != nil {
		return nil, err
	}
	return coral.Dial(ctx, serverURL, cfg.AgentID, retry.Config{
		MaxAttempts: cfg.Connect.MaxAttempts,
		Delay:       cfg.Connect.Delay,
	})
}

func discoverTools(ctx context.Context, client *coral.Client) (coralTools, error) {
	ts, err := client.Tools(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover server tools: %w", err)
	}
	return coralTools(ts), nil
}

func newAsker(cfg *config.Config) (human.Asker, error) {
	switch cfg.Human.Mode {
	case config.HumanConsole:
		return human.NewConsoleAsker(), nil
	case config.HumanSeeded:
		return human.NewSeededAsker(cfg.Human.Response), nil
	case config.HumanTelegram:
		return human.NewTelegramAsker(cfg.Human.TelegramToken, cfg.Human.TelegramChatID), nil
	case config.HumanSlack:
		return human.NewSlackAsker(cfg.Human.SlackToken, cfg.Human.SlackChannel), nil
	default:
		return nil, fmt.Errorf("unknown human interface %q", cfg.Human.Mode)
	}
}

func newToolList(cfg *config.Config, ct coralTools, asker human.Asker) (*tools.ToolList, error) {
	return tools.Assemble(cfg.Runtime, []schema.Tool(ct), asker)
}

func newRunner(provider schema.LLMProvider, cfg *config.Config, ct coralTools, tls *tools.ToolList) *agent.Runner {
	// The "agent tools" half of the prompt names the user question/answer
	// tools. Under orchestration those come from the server; in devmode
	// it is the local ask_human tool the assembly step added.
	request, answer := tools.QuestionToolNames(cfg.Runtime)
	var agentTools []schema.Tool
	for _, t := range tls.All() {
		if t.Name() == request || t.Name() == answer {
			agentTools = append(agentTools, t)
		}
	}

	prompt := agent.BuildSystemPrompt(cfg, []schema.Tool(ct), agentTools)
	return agent.NewRunner(provider, tls, prompt, cfg)
}

func newDiagnostics(cfg *config.Config, client *coral.Client) *diagnostics.Service {
	return diagnostics.NewService(client, cfg.DiagnosticsSchedule)
}
