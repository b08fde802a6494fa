// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// GHCTL_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("GHCTL_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{})
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.ErrorLevel
	}
	log.SetLevel(lvl)
}

// CustomHandler formats log messages and writes them to stderr so they never
// mix with the shell output on stdout.
type CustomHandler struct {
	// Writer overrides the destination. Nil means os.Stderr.
	Writer io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	timestamp := e.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	level := strings.ToUpper(e.Level.String())

	line := fmt.Sprintf("%s %.1s %s", timestamp.Format("2006-01-02 15:04:05"), level, e.Message)

	// Fields are emitted in key order so lines are stable.
	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		line += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}

	_, err := fmt.Fprintln(w, line)
	return err
}
