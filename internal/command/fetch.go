// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ghctl/internal/cache"
	"github.com/staranto/ghctl/internal/fetcher"
	"github.com/staranto/ghctl/internal/meta"
	"github.com/staranto/ghctl/internal/output"
)

var errNoUsers = errors.New("at least one username is required")

// FetchCommandAction is the action handler for the "fetch" subcommand. It
// fetches every named user concurrently, waits for all of them, and renders
// the ones that succeeded. Diagnostics go to stderr so stdout stays clean for
// json/yaml output.
func FetchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	usernames := cmd.Args().Slice()
	if len(usernames) == 0 {
		return errNoUsers
	}

	opts, err := OutputOptions(cmd)
	if err != nil {
		return err
	}

	c := cache.New()
	orch := NewOrchestrator(cmd, c, m.Err())

	pending := make([]<-chan fetcher.Outcome, 0, len(usernames))
	for _, u := range usernames {
		pending = append(pending, orch.FetchUser(ctx, u))
	}

	var failed []string
	results := make(map[string]cache.UserRecord, len(usernames))
	for _, ch := range pending {
		res := <-ch
		if res.Err != nil {
			failed = append(failed, res.Username)
			continue
		}
		results[res.Username] = res.Record
	}
	_ = orch.Wait()

	if err := output.Emit(m.Out(), results, opts); err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to fetch %d of %d users", len(failed), len(usernames))
	}
	return nil
}

func FetchCommandBuilder(meta meta.Meta) *cli.Command {
	cb := CommandBuilder{
		Name:      "fetch",
		Usage:     "fetch users and print them",
		UsageText: "ghctl fetch [options] USERNAME|@set ...",
		Action:    FetchCommandAction,
		Meta:      meta,
	}
	return cb.Build()
}
