package pypi

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
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/registry"
	"github.com/matzehuels/pkgporter/pkg/shell"
)

// Type is the registry-type tag served by this backend.
const Type = "pypi"

const (
	pipBinary   = "pip"
	twineBinary = "twine"

	// tokenUser is the username PyPI expects alongside API tokens.
	tokenUser = "__token__"

	// repoName is the .pypirc section twine uploads to.
	repoName = "target"
)

// Options configures a [Backend].
type Options struct {
	Runner      shell.Runner     // defaults to shell.NewExecRunner()
	Client      *registry.Client // JSON API client; defaults to an uncached client
	Logger      *log.Logger      // defaults to a discarding logger
	TempDir     string           // parent for staged files and artifacts; empty means os.TempDir
	PublishArgs []string         // extra arguments appended to twine upload
}

// Backend migrates Python distributions using the JSON API, pip and twine.
type Backend struct {
	runner      shell.Runner
	client      *registry.Client
	logger      *log.Logger
	tempDir     string
	publishArgs []string
}

// New creates a PyPI backend.
func New(opts Options) *Backend {
	if opts.Runner == nil {
		opts.Runner = shell.NewExecRunner()
	}
	if opts.Client == nil {
		opts.Client = registry.NewClient(nil, 0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Backend{
		runner:      opts.Runner,
		client:      opts.Client,
		logger:      opts.Logger,
		tempDir:     opts.TempDir,
		publishArgs: opts.PublishArgs,
	}
}

// Type implements [registry.Backend].
func (b *Backend) Type() string { return Type }

type projectResponse struct {
	Releases map[string]json.RawMessage `json:"releases"`
}

// FetchVersions returns the release keys of the project's JSON document,
// in ascending byte order.
func (b *Backend) FetchVersions(ctx context.Context, ep registry.Endpoint, pkg registry.Package) ([]string, error) {
	endpoint := ep.URL + "pypi/" + url.PathEscape(pkg.Name) + "/json"
	key := cache.Key("pypi", ep.URL, pkg.Name)

	var creds *registry.Credentials
	if ep.Token != "" {
		creds = &registry.Credentials{Username: tokenUser, Password: ep.Token}
	}

	var versions []string
	err := b.client.Cached(ctx, key, &versions, func() error {
		b.logger.Debug("GET", "url", endpoint)
		var resp projectResponse
		if err := b.client.GetJSON(ctx, endpoint, creds, &resp); err != nil {
			return err
		}
		versions = nil
		for v := range resp.Releases {
			versions = append(versions, v)
		}
		slices.Sort(versions)
		return nil
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

// DownloadVersion downloads every distribution file pip selects for
// name==version into a fresh directory. Dependencies are not downloaded.
func (b *Backend) DownloadVersion(ctx context.Context, ep registry.Endpoint, pkg registry.Package, version string) (*registry.Artifact, error) {
	dir, err := os.MkdirTemp(b.tempDir, "pkgporter-pypi-*")
	if err != nil {
		return nil, registry.DownloadError(ep, pkg, version, err)
	}

	files, err := b.download(ctx, ep, pkg, version, dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, registry.DownloadError(ep, pkg, version, err)
	}

	b.logger.Debug("downloaded", "package", pkg.Name, "version", version, "files", len(files))
	return &registry.Artifact{Version: version, Dir: dir, Files: files}, nil
}

func (b *Backend) download(ctx context.Context, ep registry.Endpoint, pkg registry.Package, version, dir string) ([]string, error) {
	conf, err := pipConf(ep)
	if err != nil {
		return nil, err
	}
	err = registry.WithStagedFile(b.tempDir, "pip.conf", conf, func(path string) error {
		return b.exec(ctx, ep, shell.Command{
			Name: pipBinary,
			Args: []string{
				"download", pkg.Name + "==" + version,
				"-d", dir,
				"--no-deps",
				"--disable-pip-version-check",
			},
			Env: []string{"PIP_CONFIG_FILE=" + path},
		})
	})
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.New("pip download produced no files")
	}
	return files, nil
}

// PublishVersion uploads every file of the artifact to ep with twine.
func (b *Backend) PublishVersion(ctx context.Context, ep registry.Endpoint, pkg registry.Package, a *registry.Artifact) error {
	if a == nil || len(a.Files) == 0 {
		return registry.PublishError(ep, pkg, "", errors.New("no artifact to publish"))
	}

	err := registry.WithStagedFile(b.tempDir, ".pypirc", pypirc(ep), func(path string) error {
		args := []string{"upload", "--non-interactive", "--config-file", path, "--repository", repoName}
		args = append(args, a.Files...)
		args = append(args, b.publishArgs...)
		return b.exec(ctx, ep, shell.Command{Name: twineBinary, Args: args})
	})
	if err != nil {
		return registry.PublishError(ep, pkg, a.Version, err)
	}
	return nil
}

// exec runs cmd and turns a non-zero exit into an error carrying the
// command's diagnostic output.
func (b *Backend) exec(ctx context.Context, ep registry.Endpoint, cmd shell.Command) error {
	b.logger.Debug("exec", "cmd", registry.Redact(cmd.String(), ep.Token))
	res, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if !res.Success() {
		return errors.New(res.Diagnostic())
	}
	return nil
}

// pipConf renders a pip configuration whose index is the endpoint's simple
// API, with the token embedded as basic-auth credentials when set.
func pipConf(ep registry.Endpoint) ([]byte, error) {
	u, err := url.Parse(ep.URL + "simple/")
	if err != nil {
		return nil, err
	}
	if ep.Token != "" {
		u.User = url.UserPassword(tokenUser, ep.Token)
	}
	return fmt.Appendf(nil, "[global]\nindex-url = %s\n", u.String()), nil
}

// pypirc renders a twine configuration with a single repository.
func pypirc(ep registry.Endpoint) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[distutils]\nindex-servers =\n    %s\n\n", repoName)
	fmt.Fprintf(&buf, "[%s]\nrepository = %s\n", repoName, ep.URL)
	if ep.Token != "" {
		fmt.Fprintf(&buf, "username = %s\npassword = %s\n", tokenUser, ep.Token)
	}
	return buf.Bytes()
}

var _ registry.Backend = (*Backend)(nil)
