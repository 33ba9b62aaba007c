package coffer

import "fmt"

// Release version of the coffer node. Suffix marks untagged builds.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit is set at build time with
// -ldflags "-X github.com/iov-one/coffer.GitCommit=<hash>".
var GitCommit = ""

// Version returns the release version followed by the commit, if known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
