// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout cancels the request context after d. A handler that has not
// started its response by then is replaced by a 503 "timeout" error; its
// later writes fail with http.ErrHandlerTimeout.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := newTimeoutWriter(w)
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if tw.expire() {
					WriteAPIError(w, http.StatusServiceUnavailable, "timeout", "Request timed out", nil)
				} else {
					// The response is already streaming; let the handler finish it.
					<-done
				}
			}
		})
	}
}

// timeoutWriter gives the handler its own header map so a late handler never
// races with the timeout response on the underlying writer.
type timeoutWriter struct {
	w      http.ResponseWriter
	header http.Header

	mu       sync.Mutex
	started  bool
	timedOut bool
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, header: w.Header().Clone()}
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

// expire marks the writer timed out unless the response has started.
func (tw *timeoutWriter) expire() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.started {
		return false
	}
	tw.timedOut = true
	return true
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	if tw.timedOut || tw.started {
		return
	}
	tw.started = true
	dst := tw.w.Header()
	for k, v := range tw.header {
		dst[k] = v
	}
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.writeHeaderLocked(http.StatusOK)
	return tw.w.Write(b)
}
