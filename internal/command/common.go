// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ghctl/internal/attrs"
	"github.com/staranto/ghctl/internal/cache"
	"github.com/staranto/ghctl/internal/fetcher"
	"github.com/staranto/ghctl/internal/github"
	"github.com/staranto/ghctl/internal/meta"
	"github.com/staranto/ghctl/internal/output"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// BuildAttrs starts from every column, applies --attrs and then the global
// transform spec.
func BuildAttrs(cmd *cli.Command) (attrs.AttrList, error) {
	al := output.DefaultAttrs()
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, err
		}
	}
	_ = al.SetGlobalTransformSpec()
	log.Debugf("attrs: %v", al.String())
	return al, nil
}

// OutputOptions collects the rendering flags.
func OutputOptions(cmd *cli.Command) (output.Options, error) {
	al, err := BuildAttrs(cmd)
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{
		Attrs:    al,
		Output:   cmd.String("output"),
		Color:    cmd.Bool("color"),
		Titles:   cmd.Bool("titles"),
		Humanize: cmd.Bool("humanize"),
		Sort:     cmd.String("sort"),
		Filter:   cmd.String("filter"),
	}, nil
}

// NewOrchestrator builds the API client from --host and --timeout and returns
// an orchestrator that fills c and reports to diag.
func NewOrchestrator(cmd *cli.Command, c *cache.Cache, diag io.Writer) *fetcher.Orchestrator {
	client := github.NewClient(
		cmd.String("host"),
		github.WithTimeout(cmd.Duration("timeout")),
	)
	log.Debugf("client: %v timeout=%v", client.BaseURL(), cmd.Duration("timeout"))

	return fetcher.New(client, c, diag)
}

// CommandBuilder constructs a cli.Command that talks to the API using a
// consistent pattern: metadata wired, remote and rendering flags applied,
// validators set up.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: append(cb.Flags, remoteFlags(cb.Name, cb.Meta.Config.Source)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
}
