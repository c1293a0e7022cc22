package weave

// GitCommit is set at build time with
//
//	-ldflags "-X github.com/iov-one/escrowd.GitCommit=<commit>"
var GitCommit = ""

// release is the semantic version of this build.
const release = "v0.1.0-dev"

// Version returns the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
