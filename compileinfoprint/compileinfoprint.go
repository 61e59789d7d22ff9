// Package compileinfoprint is imported by the platemap commands for the side
// effect of printing their build information to stderr at startup.
package compileinfoprint

import (
	"os"

	"github.com/carbocation/platemap/compileinfo"
)

func init() {
	compileinfo.Fprint(os.Stderr)
}
