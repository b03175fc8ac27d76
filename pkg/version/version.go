// Package version exposes build information injected at link time.
package version

// Set via -ldflags "-X github.com/rshade/packetbatch/pkg/version.version=...".
//
//nolint:gochecknoglobals // Link-time injected build metadata.
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the semantic version of the build, or "dev".
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}
