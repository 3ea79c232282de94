// Package npm implements the registry backend for npm-compatible registries
// (registry.npmjs.org, Verdaccio, GitHub Packages, Artifactory, ...).
//
// All registry traffic goes through the npm CLI so that authentication and
// tarball handling match what users get from npm itself. Each operation
// stages a private .npmrc that points npm at the endpoint and carries its
// token, passes it with --userconfig and removes it afterwards. The user's
// own ~/.npmrc is never read or modified.
//
// Commands issued, in order of a live migration:
//
//	npm view <name> versions --json --userconfig <npmrc>
//	npm pack <name>@<version> --pack-destination <dir> --userconfig <npmrc>
//	npm publish <tarball> --userconfig <npmrc> [publish args]
package npm
