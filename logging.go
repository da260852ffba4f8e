package rowmap

import (
	"github.com/rs/zerolog"

	"github.com/latticedb/rowmap/internal/obslog"
)

// Logger receives structured events for component build/compile
// failures and cache evictions. Disabled by default so the library
// stays silent until a host application opts in; adopted from pack
// member niiniyare-ruun's zerolog usage, since the teacher's own
// reflective core does no logging at all.
var Logger zerolog.Logger = obslog.Logger

// SetLogger replaces Logger and the shared logger schema/plan emit to,
// letting a host application wire its own sink (e.g. a logger bound to
// its own service name and output).
func SetLogger(l zerolog.Logger) {
	Logger = l
	obslog.Set(l)
}
