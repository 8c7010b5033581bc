package version

import "fmt"

// values are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var FullVersion = fmt.Sprintf("%s (%s) built at %s", Version, Commit, BuildDate)
