// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ghctl/internal/config"
)

func TestMangleArguments(t *testing.T) {
	t.Setenv("GHCTL_CFG", "testdata/ghctl.yaml")
	_, err := config.Load()
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "no command defaults to shell",
			args: []string{"ghctl"},
			want: []string{"ghctl", "shell"},
		},
		{
			name: "leading flag goes to shell",
			args: []string{"ghctl", "-o", "json"},
			want: []string{"ghctl", "shell", "-o", "json"},
		},
		{
			name: "top level help untouched",
			args: []string{"ghctl", "--help"},
			want: []string{"ghctl", "--help"},
		},
		{
			name: "plain fetch untouched",
			args: []string{"ghctl", "fetch", "octocat"},
			want: []string{"ghctl", "fetch", "octocat"},
		},
		{
			name: "set expands in place",
			args: []string{"ghctl", "fetch", "-o", "json", "@team", "defunkt"},
			want: []string{"ghctl", "fetch", "-o", "json", "octocat", "torvalds", "defunkt"},
		},
		{
			name: "scalar set",
			args: []string{"ghctl", "fetch", "@solo"},
			want: []string{"ghctl", "fetch", "defunkt"},
		},
		{
			name: "lone at sign kept",
			args: []string{"ghctl", "fetch", "@"},
			want: []string{"ghctl", "fetch", "@"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mangleArguments(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMangleArguments_UnknownSet(t *testing.T) {
	t.Setenv("GHCTL_CFG", "testdata/ghctl.yaml")
	_, err := config.Load()
	require.NoError(t, err)

	_, err = mangleArguments([]string{"ghctl", "fetch", "@nobody"})
	assert.ErrorContains(t, err, "@nobody")
}
