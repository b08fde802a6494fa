// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache holds the in-memory user cache. A Cache is an owned object,
// not process-wide state, so independent instances can live side by side.
package cache
