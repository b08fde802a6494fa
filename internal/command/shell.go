// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ghctl/internal/cache"
	"github.com/staranto/ghctl/internal/meta"
	"github.com/staranto/ghctl/internal/shell"
)

// ShellCommandAction is the action handler for the "shell" subcommand. It
// runs the interactive menu over a fresh, empty cache.
func ShellCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	opts, err := OutputOptions(cmd)
	if err != nil {
		return err
	}

	c := cache.New()
	orch := NewOrchestrator(cmd, c, m.Out())

	return shell.New(m.In(), m.Out(), c, orch, opts).Run(ctx)
}

func ShellCommandBuilder(meta meta.Meta) *cli.Command {
	cb := CommandBuilder{
		Name:      "shell",
		Usage:     "interactive menu (default)",
		UsageText: "ghctl [shell] [options]",
		Action:    ShellCommandAction,
		Meta:      meta,
	}
	return cb.Build()
}
