package registry

import (
	"errors"

	perrors "github.com/matzehuels/pkgporter/pkg/errors"
)

var (
	// ErrNotFound is returned by the HTTP client when the registry answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NotFoundError reports that pkg does not exist on the registry at ep.
func NotFoundError(ep Endpoint, pkg Package, cause error) error {
	return perrors.Wrap(perrors.ErrCodePackageNotFound, redactErr(cause, ep),
		"package '%s' not found in registry '%s'", pkg.FullName(), ep.URL)
}

// FetchError reports a failure to enumerate versions.
func FetchError(ep Endpoint, pkg Package, cause error) error {
	return perrors.Wrap(perrors.ErrCodeFetch, redactErr(cause, ep),
		"fetch versions of %s from %s", pkg.FullName(), ep.URL)
}

// DownloadError reports a failure to download one version.
func DownloadError(ep Endpoint, pkg Package, version string, cause error) error {
	return perrors.Wrap(perrors.ErrCodeDownload, redactErr(cause, ep),
		"download %s@%s from %s", pkg.FullName(), version, ep.URL)
}

// PublishError reports a failure to publish one version.
func PublishError(ep Endpoint, pkg Package, version string, cause error) error {
	return perrors.Wrap(perrors.ErrCodePublish, redactErr(cause, ep),
		"publish %s@%s to %s", pkg.FullName(), version, ep.URL)
}

// IsNotFound reports whether err classifies as a missing package.
func IsNotFound(err error) bool {
	return perrors.Is(err, perrors.ErrCodePackageNotFound)
}
