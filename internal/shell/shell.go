// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/ghctl/internal/cache"
	"github.com/staranto/ghctl/internal/fetcher"
	"github.com/staranto/ghctl/internal/output"
	"github.com/staranto/ghctl/internal/query"
)

// ErrInvalidOption marks a menu selection or answer the shell can't act on.
// It is reported and the loop carries on.
var ErrInvalidOption = errors.New("invalid option")

// errEndOfInput is returned by ask when the input ends at a prompt.
var errEndOfInput = errors.New("end of input")

const (
	InvalidOptionMessage = "Invalid option. Please try again."
	ExitMessage          = "Exiting the program."
)

// Menu choices, numbered as displayed.
const (
	choiceFetch = iota + 1
	choiceList
	choiceFindUser
	choiceFindRepo
	choiceExit
)

var menu = []string{
	"1) Fetch user information",
	"2) List of users in memory",
	"3) Search by username from memory",
	"4) Search by repository name from memory",
	"5) Exit",
}

// Shell is the interactive numbered menu over a cache and the orchestrator
// that fills it.
type Shell struct {
	in    *bufio.Scanner
	out   io.Writer
	cache *cache.Cache
	orch  *fetcher.Orchestrator
	opts  output.Options

	first bool
}

// New returns a Shell reading answers from in and writing to out. Results
// are rendered with opts.
func New(in io.Reader, out io.Writer, c *cache.Cache, orch *fetcher.Orchestrator, opts output.Options) *Shell {
	return &Shell{
		in:    bufio.NewScanner(in),
		out:   out,
		cache: c,
		orch:  orch,
		opts:  opts,
		first: true,
	}
}

// Run loops over the menu until the operator picks Exit, the input ends or
// a menu action fails. Fetches still in flight at that point are cancelled
// and waited for. A failed action is reported and returned.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var runErr error

loop:
	for {
		s.showMenu()

		line, ok := s.readLine()
		if !ok {
			break
		}

		choice, err := parseChoice(line)
		if err != nil {
			log.WithError(err).Debugf("menu input %q", line)
			s.println(InvalidOptionMessage)
			continue
		}

		if choice == choiceExit {
			break
		}

		err = s.dispatch(ctx, choice)
		switch {
		case err == nil:
		case errors.Is(err, errEndOfInput):
			break loop
		case errors.Is(err, ErrInvalidOption):
			s.println(InvalidOptionMessage)
		default:
			log.WithError(err).Error("menu action failed")
			s.println(err.Error())
			runErr = err
			break loop
		}
	}

	s.println(ExitMessage)
	cancel()
	if err := s.orch.Wait(); err != nil {
		log.WithError(err).Debug("in-flight fetch ended with error")
	}

	if runErr != nil {
		return runErr
	}
	return s.in.Err()
}

func (s *Shell) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case choiceFetch:
		name, err := s.ask("Enter GitHub username:")
		if err != nil {
			return err
		}
		// Control comes straight back; the orchestrator reports the outcome.
		s.orch.FetchUser(ctx, name)

	case choiceList:
		all, ok := query.ListAll(s.cache)
		if !ok {
			s.println(query.NoUsersMessage)
			return nil
		}
		users := make(map[string]cache.UserRecord)
		for name, r := range all {
			users[name] = r
		}
		return s.emit(users)

	case choiceFindUser:
		name, err := s.ask("Enter username to search:")
		if err != nil {
			return err
		}
		r, ok := query.FindByUsername(s.cache, name)
		if !ok {
			s.println(query.UserNotFoundMessage)
			return nil
		}
		return s.emit(map[string]cache.UserRecord{name: r})

	case choiceFindRepo:
		repo, err := s.ask("Enter repository name to search:")
		if err != nil {
			return err
		}
		found, ok := query.FindByRepository(s.cache, repo)
		if !ok {
			s.println(query.NoRepositoryMessage)
			return nil
		}
		return s.emit(found)

	default:
		return fmt.Errorf("%w: %d", ErrInvalidOption, choice)
	}

	return nil
}

// ask prompts and returns the trimmed answer. A blank answer is an invalid
// option.
func (s *Shell) ask(prompt string) (string, error) {
	s.println(prompt)
	answer, ok := s.readLine()
	if !ok {
		return "", errEndOfInput
	}
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer to %q", ErrInvalidOption, prompt)
	}
	return answer, nil
}

func (s *Shell) emit(users map[string]cache.UserRecord) error {
	if err := output.Emit(s.out, users, s.opts); err != nil {
		return fmt.Errorf("failed to render users: %w", err)
	}
	return nil
}

func (s *Shell) showMenu() {
	if s.first {
		s.println("Please choose an option:")
		s.first = false
	} else {
		s.println("\nPlease choose an option:")
	}
	for _, m := range menu {
		s.println(m)
	}
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) println(msg string) {
	_, _ = fmt.Fprintln(s.out, msg)
}

// parseChoice converts a menu selection, rejecting anything that is not one
// of the listed numbers.
func parseChoice(line string) (int, error) {
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOption, line)
	}
	if n < choiceFetch || n > choiceExit {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidOption, n)
	}
	return n, nil
}
