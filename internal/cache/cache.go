// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// UserRecord is the merged view of a remote user: the profile counters plus
// the names of the user's repositories, in the order the API returned them.
// Records are values and are never mutated once stored.
type UserRecord struct {
	Followers    int      `json:"followers" yaml:"followers"`
	Following    int      `json:"following" yaml:"following"`
	CreatedAt    string   `json:"created_at" yaml:"created_at"`
	Repositories []string `json:"repos" yaml:"repos"`
}

// String renders the record the way the shell prints it.
func (r UserRecord) String() string {
	return fmt.Sprintf("followers=%d following=%d created_at=%s repos=[%s]",
		r.Followers, r.Following, r.CreatedAt, strings.Join(r.Repositories, ", "))
}

// HasRepository reports whether name is one of the record's repositories.
// Matching is exact and case-sensitive.
func (r UserRecord) HasRepository(name string) bool {
	return slices.Contains(r.Repositories, name)
}

func (r UserRecord) clone() UserRecord {
	r.Repositories = slices.Clone(r.Repositories)
	return r
}

// Cache maps usernames (case-sensitive) to UserRecords. It is safe for
// concurrent use; a Put is atomic with respect to readers.
type Cache struct {
	mu    sync.RWMutex
	users map[string]UserRecord
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{users: make(map[string]UserRecord)}
}

// Get returns a copy of the record for username.
func (c *Cache) Get(username string) (UserRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.users[username]
	if !ok {
		return UserRecord{}, false
	}
	return r.clone(), true
}

// Has reports whether username is cached.
func (c *Cache) Has(username string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.users[username]
	return ok
}

// Put stores a copy of r under username, replacing any previous record
// wholesale.
func (c *Cache) Put(username string, r UserRecord) {
	r = r.clone()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[username] = r
}

// Len returns the number of cached users.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}

// Usernames returns the cached usernames in sorted order.
func (c *Cache) Usernames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.users))
	for name := range c.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a point-in-time copy of the whole cache.
func (c *Cache) Snapshot() map[string]UserRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[string]UserRecord, len(c.users))
	for name, r := range c.users {
		snap[name] = r.clone()
	}
	return snap
}
