// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fetcher drives the fetch-and-merge of a single user: serve from the
// cache when possible, otherwise fetch the profile, then the repositories,
// and only when both succeed merge them into the cache.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/staranto/ghctl/internal/cache"
	"github.com/staranto/ghctl/internal/github"
)

// ErrEmptyUsername is returned for a blank username. No request is made.
var ErrEmptyUsername = errors.New("username must not be empty")

// API is the remote side of a fetch. *github.Client satisfies it.
type API interface {
	Profile(ctx context.Context, username string) (github.Profile, error)
	Repositories(ctx context.Context, username string) ([]github.Repository, error)
}

// Outcome is the result of one FetchUser call.
type Outcome struct {
	Username  string
	Record    cache.UserRecord
	FromCache bool
	Err       error
}

// Orchestrator fetches users into a cache. Diagnostics for every outcome are
// written to its writer; callers don't need to inspect the Outcome.
type Orchestrator struct {
	api   API
	cache *cache.Cache

	mu  sync.Mutex // serializes writes to out
	out io.Writer

	inflight errgroup.Group
	dedup    singleflight.Group
}

// New returns an Orchestrator that fills c from api and reports to out. A nil
// out means os.Stdout.
func New(api API, c *cache.Cache, out io.Writer) *Orchestrator {
	if out == nil {
		out = os.Stdout
	}
	return &Orchestrator{api: api, cache: c, out: out}
}

// FetchUser serves username from the cache or, failing that, starts the
// remote fetch and returns at once. The channel yields exactly one Outcome
// and is then closed.
//
// A cached user always wins and costs no network calls. Otherwise the
// repository request is issued only after the profile request succeeds, and
// the cache is written only after both succeed. Any failure aborts the fetch
// and leaves the cache untouched.
func (o *Orchestrator) FetchUser(ctx context.Context, username string) <-chan Outcome {
	done := make(chan Outcome, 1)

	username = strings.TrimSpace(username)
	if username == "" {
		o.printf("Error fetching data: %v\n", ErrEmptyUsername)
		done <- Outcome{Err: ErrEmptyUsername}
		close(done)
		return done
	}

	if r, ok := o.cache.Get(username); ok {
		log.WithField("user", username).Debug("cache hit")
		o.printf("User data loaded from memory: %s\n", r)
		done <- Outcome{Username: username, Record: r, FromCache: true}
		close(done)
		return done
	}

	o.inflight.Go(func() error {
		defer close(done)

		// Concurrent fetches for the same user share one pair of requests.
		v, err, shared := o.dedup.Do(username, func() (any, error) {
			return o.fetch(ctx, username)
		})
		if shared {
			log.WithField("user", username).Debug("joined in-flight fetch")
		}

		out := Outcome{Username: username, Err: err}
		if err == nil {
			out.Record = v.(cache.UserRecord) //nolint:forcetypeassert
		}
		done <- out
		return err
	})

	return done
}

// Wait blocks until every fetch started so far has finished and returns the
// first failure, if any.
func (o *Orchestrator) Wait() error {
	return o.inflight.Wait()
}

// fetch is the chained profile then repositories sequence. It runs on its own
// goroutine; the cache Put at the end is the only shared state it touches.
func (o *Orchestrator) fetch(ctx context.Context, username string) (cache.UserRecord, error) {
	logger := log.WithField("user", username)

	profile, err := o.api.Profile(ctx, username)
	if err != nil {
		o.report(ctx, logger, "Error fetching data", err)
		return cache.UserRecord{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	logger.Debugf("profile ok, %d public repos reported", profile.PublicRepos)

	repos, err := o.api.Repositories(ctx, username)
	if err != nil {
		o.report(ctx, logger, "Error fetching repositories", err)
		return cache.UserRecord{}, fmt.Errorf("failed to fetch repositories: %w", err)
	}

	record := Merge(profile, repos)
	o.cache.Put(username, record)
	logger.Debugf("cached with %d repos", len(record.Repositories))

	o.printf("User %s fetched and stored in memory.\n", username)
	return record, nil
}

// Merge builds the cached record from a profile and its repository list.
// Repository order is preserved.
func Merge(p github.Profile, repos []github.Repository) cache.UserRecord {
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}
	return cache.UserRecord{
		Followers:    p.Followers,
		Following:    p.Following,
		CreatedAt:    p.CreatedAt,
		Repositories: names,
	}
}

// report prints the diagnostic for a failed step. prefix is used for
// response errors; transport failures get the connection message. Nothing is
// printed when the fetch was cancelled by the caller.
func (o *Orchestrator) report(ctx context.Context, logger *log.Entry, prefix string, err error) {
	if ctx.Err() != nil {
		logger.WithError(err).Debug("fetch cancelled")
		return
	}

	if ce, ok := github.AsConnectionError(err); ok {
		logger.WithError(err).Warn("connection failed")
		o.printf("Error with server connection: %v\n", ce.Err)
		return
	}

	if re, ok := github.AsResponseError(err); ok {
		logger.WithError(err).Warn("request failed")
		o.printf("%s: %s\n", prefix, re.Body)
		return
	}

	logger.WithError(err).Warn("fetch failed")
	o.printf("%s: %v\n", prefix, err)
}

func (o *Orchestrator) printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(o.out, format, args...)
}
