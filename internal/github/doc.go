// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package github is a minimal client for the two read-only GitHub REST
// endpoints ghctl needs: a user's profile and a user's repository list. No
// authentication is sent and pagination is not followed.
package github
