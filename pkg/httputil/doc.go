// Package httputil provides retry helpers for registry HTTP calls.
//
// Only read-only metadata requests (e.g. the PyPI JSON API) go through
// these helpers. Publishing is never retried: a publish that timed out may
// already have been accepted by the target registry, and a blind retry
// would fail with a version conflict that hides the original error.
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetchReleases(ctx)
//	})
//
// Errors not wrapped with [Retryable] (404s, JSON decode failures) are
// returned on the first attempt.
package httputil
