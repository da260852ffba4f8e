// Package obslog holds the process-wide structured logger shared by
// schema, plan and the root rowmap façade, kept in its own leaf package
// so those packages can log without importing the root package (which
// imports them). rowmap.Logger/SetLogger forward here.
package obslog

import "github.com/rs/zerolog"

// Logger is silent until a host application calls Set (typically via
// rowmap.SetLogger).
var Logger zerolog.Logger = zerolog.Nop()

// Set replaces Logger.
func Set(l zerolog.Logger) {
	Logger = l
}
