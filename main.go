// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/ghctl/internal/command"
	"github.com/staranto/ghctl/internal/config"
	mylog "github.com/staranto/ghctl/internal/log"
	"github.com/staranto/ghctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	// Short-circuit --version/-v.
	for _, a := range os.Args[1:] {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	args, err := mangleArguments(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments makes the interactive shell the default command and
// replaces every @set argument with the usernames listed under sets.<name> in
// the config file.
func mangleArguments(args []string) ([]string, error) {
	if len(args) < 2 {
		return append(args, "shell"), nil
	}

	// Flags straight after the binary belong to the default command, unless
	// it's a request for the top level help.
	if a := args[1]; strings.HasPrefix(a, "-") && a != "--help" && a != "-h" {
		args = append([]string{args[0], "shell"}, args[1:]...)
	}

	working := make([]string, 0, len(args))
	working = append(working, args[:2]...)
	for _, a := range args[2:] {
		if !strings.HasPrefix(a, "@") || len(a) == 1 {
			working = append(working, a)
			continue
		}

		set := a[1:]
		names, err := config.GetStringSlice("sets." + set)
		if err != nil {
			return nil, fmt.Errorf("unknown user set @%s: %w", set, err)
		}
		working = append(working, names...)
	}

	log.Debugf("args=%v", working)
	return working, nil
}
