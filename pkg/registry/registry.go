// Package registry defines the contract every registry backend implements
// and the values shared by all of them.
//
// A migration talks to two registries of the same ecosystem: the source,
// which versions are fetched and downloaded from, and the target, which
// they are published to. Each side is an [Endpoint]; the package being
// migrated is a [Package]. Backends ([Backend]) implement the three
// primitive operations for one registry type:
//
//	versions, err := backend.FetchVersions(ctx, source, pkg)
//	artifact, err := backend.DownloadVersion(ctx, source, pkg, "1.2.3")
//	defer artifact.Cleanup()
//	err = backend.PublishVersion(ctx, target, pkg, artifact)
//
// Implementations live in the npm and pypi subpackages; the registries
// package maps a registry-type tag to one of them.
package registry

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/matzehuels/pkgporter/pkg/errors"
)

// Endpoint identifies one side of a migration.
//
// Create endpoints with [NewEndpoint]; the URL is validated and normalised
// once so backends can append paths without further checks.
type Endpoint struct {
	URL   string // absolute http(s) URL, always ending in "/"
	Token string // auth token, may be empty for anonymous reads
}

// NewEndpoint validates raw as an absolute http(s) URL with a host and
// returns an Endpoint whose URL ends in "/". Query strings and fragments
// are rejected since registry clients append paths to the URL.
func NewEndpoint(raw, token string) (Endpoint, error) {
	u, err := NormalizeURL(raw)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{URL: u, Token: token}, nil
}

// NormalizeURL validates and canonicalises a registry URL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := errors.ValidateURL(raw); err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "invalid registry URL %q", raw)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", errors.New(errors.ErrCodeInvalidURL, "registry URL must be absolute: %q", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", errors.New(errors.ErrCodeInvalidURL, "registry URL must not have a query or fragment: %q", raw)
	}
	if u.User != nil {
		return "", errors.New(errors.ErrCodeInvalidURL, "registry URL must not embed credentials; use the auth token setting")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

// Host returns the host[:port] of the endpoint URL.
func (e Endpoint) Host() string {
	u, err := url.Parse(e.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// String returns the endpoint URL. The token is never included.
func (e Endpoint) String() string { return e.URL }

// Package identifies the package being migrated.
type Package struct {
	Name  string // package name without scope
	Scope string // optional namespace, e.g. "@acme" for npm
}

// FullName returns "scope/name" when a scope is set, otherwise the name.
func (p Package) FullName() string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Scope + "/" + p.Name
}

func (p Package) String() string { return p.FullName() }

// Artifact is a downloaded version ready to be published. Files live in
// Dir, which belongs to the artifact and is removed by Cleanup.
type Artifact struct {
	Version string
	Dir     string
	Files   []string // absolute paths inside Dir
}

// Cleanup removes the artifact's directory. It is safe to call on a nil
// artifact and more than once.
func (a *Artifact) Cleanup() error {
	if a == nil || a.Dir == "" {
		return nil
	}
	return os.RemoveAll(a.Dir)
}

// Backend implements the registry-specific primitive operations.
//
// FetchVersions returns an error with code PACKAGE_NOT_FOUND when the
// registry reports the package absent and FETCH_FAILED otherwise.
// DownloadVersion fails with DOWNLOAD_FAILED and PublishVersion with
// PUBLISH_FAILED. Error text never contains endpoint tokens.
type Backend interface {
	// Type returns the registry-type tag the backend serves ("npm", "pypi").
	Type() string

	FetchVersions(ctx context.Context, ep Endpoint, pkg Package) ([]string, error)
	DownloadVersion(ctx context.Context, ep Endpoint, pkg Package, version string) (*Artifact, error)
	PublishVersion(ctx context.Context, ep Endpoint, pkg Package, artifact *Artifact) error
}
