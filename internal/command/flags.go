// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/ghctl/internal/github"
)

// NewGlobalFlags returns the rendering flags shared by every command. ns is
// the command name, used as the config namespace, and src is the config
// file path (may be empty).
func NewGlobalFlags(ns string, src string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"attrs", altsrc.StringSourcer(src)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(src)),
				yaml.YAML("color", altsrc.StringSourcer(src)),
			),
			Value: term.IsTerminal(int(os.Stdout.Fd())),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:  "humanize",
			Usage: "thousands separators and relative dates in text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"humanize", altsrc.StringSourcer(src)),
				yaml.YAML("humanize", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(src)),
				yaml.YAML("output", altsrc.StringSourcer(src)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(src)),
				yaml.YAML("sort", altsrc.StringSourcer(src)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(src)),
				yaml.YAML("titles", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
	}

	return
}

// NewHostFlag constructs the "host" flag. The API root comes from the flag,
// GHCTL_HOST, then the config file (namespaced first).
func NewHostFlag(ns string, src string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "host",
		Usage: "API root to query",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GHCTL_HOST"),
		),
		Value: github.DefaultHost,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, HostValidator)
		},
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, src, flag)
}

// NewTimeoutFlag constructs the per-request "timeout" flag. Zero disables the
// bound. The config value is a duration string such as "45s".
func NewTimeoutFlag(ns string, src string) *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:  "timeout",
		Usage: "per-request timeout, 0 for none",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GHCTL_TIMEOUT"),
			yaml.YAML(ns+"."+"timeout", altsrc.StringSourcer(src)),
			yaml.YAML("timeout", altsrc.StringSourcer(src)),
		),
		Value: github.DefaultTimeout,
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// remoteFlags are the flags of commands that talk to the API.
func remoteFlags(ns string, src string) []cli.Flag {
	return append([]cli.Flag{
		NewHostFlag(ns, src),
		NewTimeoutFlag(ns, src),
	}, NewGlobalFlags(ns, src)...)
}
