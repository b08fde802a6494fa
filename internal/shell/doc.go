// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package shell implements the interactive numbered menu: fetch a user, list
// the cache, and search it by username or repository name.
package shell
