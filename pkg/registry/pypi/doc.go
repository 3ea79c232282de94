// Package pypi implements the registry backend for PyPI-compatible
// registries (pypi.org, devpi, Artifactory, Nexus, ...).
//
// Version listing uses the JSON API (GET <registry>/pypi/<name>/json),
// which may be cached. Downloads and uploads go through pip and twine so
// that distribution handling matches the Python tooling:
//
//	pip download <name>==<version> -d <dir> --no-deps
//	twine upload --non-interactive --config-file <pypirc> --repository target <files...>
//
// pip reads the source index from a staged pip.conf passed through
// PIP_CONFIG_FILE; twine reads the target and its credentials from a
// staged .pypirc. Tokens use the "__token__" username convention of PyPI
// API tokens.
package pypi
