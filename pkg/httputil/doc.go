// Package httputil provides the HTTP plumbing for remote content APIs.
//
// # Overview
//
// This package backs clients that pull conversation content over HTTP:
//
//   - [Client]: JSON GET with timeouts and transparent retries
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry Logic
//
// [Retry] retries transient failures with exponential backoff. Wrap an
// error in [RetryableError] to mark it transient; [Client] does this for
// network errors and 5xx responses, so callers see a single error after
// the attempts are exhausted.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest()
//	})
//
// Client errors (4xx) are never retried.
package httputil
