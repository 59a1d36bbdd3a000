// Copyright 2026 The eliza-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elizaos/eliza-go/pkg/config"
	"github.com/elizaos/eliza-go/pkg/observability"
	"github.com/elizaos/eliza-go/pkg/runtime"
	"github.com/elizaos/eliza-go/pkg/types"
)

// RunCmd starts an agent with a terminal connector reading from stdin.
type RunCmd struct {
	Character     string `short:"c" required:"" help:"Path to the character file." type:"path"`
	TrajectoryDir string `name:"trajectory-dir" help:"Directory for trajectory JSONL output."`
	Watch         bool   `help:"Watch the character file and reload settings on change."`
	Observe       bool   `help:"Enable metrics and tracing."`
	MetricsPort   int    `name:"metrics-port" help:"Prometheus scrape port." default:"9464"`
}

func (c *RunCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	character, err := config.LoadCharacter(c.Character)
	if err != nil {
		return err
	}

	obs := observability.NoopManager()
	if c.Observe {
		obs = observability.NewManager(observability.Config{
			Tracing: observability.TracerConfig{Enabled: cli.LogLevel == "debug"},
			Metrics: observability.MetricsConfig{Enabled: true, Port: c.MetricsPort},
		})
		if err := obs.Initialize(ctx); err != nil {
			return err
		}
		defer func() {
			if err := obs.Shutdown(context.Background()); err != nil {
				slog.Warn("observability shutdown failed", "error", err)
			}
		}()
	}

	rt, err := runtime.NewAgentRuntime(runtime.Options{
		Character:     character,
		TrajectoryDir: c.TrajectoryDir,
		Observability: obs,
	})
	if err != nil {
		return err
	}
	if err := rt.Initialize(ctx); err != nil {
		return err
	}
	defer rt.Stop(context.Background())

	if c.Watch {
		go func() {
			err := config.Watch(ctx, c.Character, func(reloaded *types.Character) {
				// Only settings take effect live; identity changes need a
				// restart.
				rt.SetSetting("character_reloaded", true, false)
				for k, v := range reloaded.Settings {
					rt.SetSetting(k, v, false)
				}
			})
			if err != nil && ctx.Err() == nil {
				slog.Error("character watch failed", "error", err)
			}
		}()
	}

	return repl(ctx, rt)
}

// repl is the terminal connector: one room, one user, line-oriented.
func repl(ctx context.Context, rt *runtime.AgentRuntime) error {
	roomID := types.NewUUID()
	userID := types.NewUUID()

	fmt.Printf("%s is listening. Type a message, or ctrl-d to exit.\n", rt.AgentName())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		msg := &types.Memory{
			EntityID: userID,
			RoomID:   roomID,
			Content:  types.Content{Text: text, Source: "terminal"},
		}
		result, err := rt.HandleMessage(ctx, msg, nil)
		if err != nil {
			slog.Error("message handling failed", "error", err)
			continue
		}
		if result.Text != "" {
			fmt.Printf("%s: %s\n", rt.AgentName(), result.Text)
		}
		if len(result.Actions) > 0 {
			fmt.Printf("[actions: %s]\n", strings.Join(result.Actions, ", "))
		}
	}
}
