// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package query holds the read-only lookups over the user cache. None of
// them mutate the cache and all of them tolerate an empty one.
package query

import (
	"iter"

	"github.com/apex/log"

	"github.com/staranto/ghctl/internal/cache"
)

// Messages printed when a lookup comes back empty. These are informational,
// not errors.
const (
	NoUsersMessage      = "No users in memory."
	UserNotFoundMessage = "User not found."
	NoRepositoryMessage = "No repository found with this name."
)

// ListAll returns a lazy sequence of every cached user in username order. The
// bool is false when the cache is empty, in which case the sequence is nil.
func ListAll(c *cache.Cache) (iter.Seq2[string, cache.UserRecord], bool) {
	names := c.Usernames()
	if len(names) == 0 {
		return nil, false
	}

	return func(yield func(string, cache.UserRecord) bool) {
		for _, name := range names {
			r, ok := c.Get(name)
			if !ok {
				continue
			}
			if !yield(name, r) {
				return
			}
		}
	}, true
}

// FindByUsername returns the record for username. Matching is exact and
// case-sensitive.
func FindByUsername(c *cache.Cache, username string) (cache.UserRecord, bool) {
	return c.Get(username)
}

// FindByRepository returns every cached user whose repository list contains
// repoName. The bool is false when nobody matches.
func FindByRepository(c *cache.Cache, repoName string) (map[string]cache.UserRecord, bool) {
	found := make(map[string]cache.UserRecord)
	for name, r := range c.Snapshot() {
		if r.HasRepository(repoName) {
			found[name] = r
		}
	}
	log.Debugf("repository %q matched %d of %d users", repoName, len(found), c.Len())

	if len(found) == 0 {
		return nil, false
	}
	return found, true
}
