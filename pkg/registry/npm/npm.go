package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgporter/pkg/registry"
	"github.com/matzehuels/pkgporter/pkg/shell"
)

// Type is the registry-type tag served by this backend.
const Type = "npm"

const binary = "npm"

// Options configures a [Backend].
type Options struct {
	Runner      shell.Runner // defaults to shell.NewExecRunner()
	Logger      *log.Logger  // defaults to a discarding logger
	TempDir     string       // parent for staged files and artifacts; empty means os.TempDir
	PublishArgs []string     // extra arguments appended to npm publish
}

// Backend migrates npm packages using the npm CLI.
type Backend struct {
	runner      shell.Runner
	logger      *log.Logger
	tempDir     string
	publishArgs []string
}

// New creates an npm backend.
func New(opts Options) *Backend {
	if opts.Runner == nil {
		opts.Runner = shell.NewExecRunner()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Backend{
		runner:      opts.Runner,
		logger:      opts.Logger,
		tempDir:     opts.TempDir,
		publishArgs: opts.PublishArgs,
	}
}

// Type implements [registry.Backend].
func (b *Backend) Type() string { return Type }

// FetchVersions lists every published version of pkg on ep.
func (b *Backend) FetchVersions(ctx context.Context, ep registry.Endpoint, pkg registry.Package) ([]string, error) {
	var versions []string
	err := b.withNpmrc(ep, pkg, func(rc string) error {
		res, err := b.run(ctx, ep, shell.Command{
			Name: binary,
			Args: []string{"view", pkg.FullName(), "versions", "--json", "--userconfig", rc},
		})
		if err != nil {
			return err
		}
		if !res.Success() {
			if isNotFound(res) {
				return fmt.Errorf("%w: %s", registry.ErrNotFound, res.Diagnostic())
			}
			return errors.New(res.Diagnostic())
		}
		versions, err = parseVersions(res.Stdout)
		return err
	})
	switch {
	case err == nil:
		return versions, nil
	case errors.Is(err, registry.ErrNotFound):
		return nil, registry.NotFoundError(ep, pkg, err)
	default:
		return nil, registry.FetchError(ep, pkg, err)
	}
}

// DownloadVersion packs pkg@version from ep into a fresh directory.
// The returned artifact holds exactly one tarball.
func (b *Backend) DownloadVersion(ctx context.Context, ep registry.Endpoint, pkg registry.Package, version string) (*registry.Artifact, error) {
	dir, err := os.MkdirTemp(b.tempDir, "pkgporter-npm-*")
	if err != nil {
		return nil, registry.DownloadError(ep, pkg, version, err)
	}

	var tarball string
	err = b.withNpmrc(ep, pkg, func(rc string) error {
		res, err := b.run(ctx, ep, shell.Command{
			Name: binary,
			Args: []string{"pack", pkg.FullName() + "@" + version, "--pack-destination", dir, "--userconfig", rc},
		})
		if err != nil {
			return err
		}
		if !res.Success() {
			return errors.New(res.Diagnostic())
		}
		name := lastLine(res.Stdout)
		if name == "" {
			return errors.New("npm pack did not report a tarball")
		}
		tarball = filepath.Join(dir, filepath.Base(name))
		if _, err := os.Stat(tarball); err != nil {
			return fmt.Errorf("tarball missing: %w", err)
		}
		return nil
	})
	if err != nil {
		os.RemoveAll(dir)
		return nil, registry.DownloadError(ep, pkg, version, err)
	}

	b.logger.Debug("packed", "package", pkg.FullName(), "version", version, "file", filepath.Base(tarball))
	return &registry.Artifact{Version: version, Dir: dir, Files: []string{tarball}}, nil
}

// PublishVersion publishes the artifact's tarball to ep.
func (b *Backend) PublishVersion(ctx context.Context, ep registry.Endpoint, pkg registry.Package, a *registry.Artifact) error {
	if a == nil || len(a.Files) == 0 {
		return registry.PublishError(ep, pkg, "", errors.New("no artifact to publish"))
	}

	err := b.withNpmrc(ep, pkg, func(rc string) error {
		args := append([]string{"publish", a.Files[0], "--userconfig", rc}, b.publishArgs...)
		res, err := b.run(ctx, ep, shell.Command{Name: binary, Args: args})
		if err != nil {
			return err
		}
		if !res.Success() {
			return errors.New(res.Diagnostic())
		}
		return nil
	})
	if err != nil {
		return registry.PublishError(ep, pkg, a.Version, err)
	}
	return nil
}

func (b *Backend) withNpmrc(ep registry.Endpoint, pkg registry.Package, fn func(path string) error) error {
	return registry.WithStagedFile(b.tempDir, ".npmrc", npmrc(ep, pkg.Scope), fn)
}

func (b *Backend) run(ctx context.Context, ep registry.Endpoint, cmd shell.Command) (*shell.Result, error) {
	b.logger.Debug("exec", "cmd", registry.Redact(cmd.String(), ep.Token))
	res, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		b.logger.Debug("command failed", "cmd", binary, "exit", res.ExitCode)
	}
	return res, nil
}

// npmrc renders the per-operation npm config. A scoped package maps only
// its scope to the endpoint; otherwise the default registry is replaced.
func npmrc(ep registry.Endpoint, scope string) []byte {
	var buf bytes.Buffer
	if scope != "" {
		fmt.Fprintf(&buf, "%s:registry=%s\n", scope, ep.URL)
	} else {
		fmt.Fprintf(&buf, "registry=%s\n", ep.URL)
	}
	if ep.Token != "" {
		fmt.Fprintf(&buf, "%s:_authToken=%s\n", authPrefix(ep.URL), ep.Token)
	}
	return buf.Bytes()
}

// authPrefix returns the nerf-darted URL npm uses to key credentials:
// the URL without its scheme, e.g. "//npm.example.com/repo/".
func authPrefix(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return "//" + u.Host + u.Path
}

func isNotFound(res *shell.Result) bool {
	out := string(res.Stderr) + string(res.Stdout)
	return strings.Contains(out, "E404") || strings.Contains(out, "404 Not Found")
}

// parseVersions decodes npm view output. npm prints a JSON array for
// several versions, a bare JSON string for exactly one and nothing when
// the field is empty.
func parseVersions(out []byte) ([]string, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}
	if out[0] == '[' {
		var versions []string
		if err := json.Unmarshal(out, &versions); err != nil {
			return nil, fmt.Errorf("decode npm view output: %w", err)
		}
		return versions, nil
	}
	var single string
	if err := json.Unmarshal(out, &single); err != nil {
		return nil, fmt.Errorf("decode npm view output: %w", err)
	}
	return []string{single}, nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ registry.Backend = (*Backend)(nil)
