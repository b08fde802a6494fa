// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a successful response carries a body
// that can't be decoded into the expected shape.
var ErrMalformedResponse = errors.New("malformed response body")

// ConnectionError is a transport level failure: DNS, TCP, TLS, timeout. The
// remote service was never heard from.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ResponseError is a non-2xx answer from the remote service. Body carries the
// service's error payload, or its message field when the payload is JSON.
type ResponseError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Body)
}

// AsConnectionError returns the ConnectionError wrapped by err, if any.
func AsConnectionError(err error) (*ConnectionError, bool) {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsResponseError returns the ResponseError wrapped by err, if any.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
