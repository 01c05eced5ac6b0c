// Package fs holds the logging, global config and small helpers shared
// by every mybox package
package fs

import (
	"io"
)

// Version of mybox
var Version = "v0.1.0-DEV"

// CheckClose is a utility function used to check the return from
// Close in a defer statement.
func CheckClose(c io.Closer, err *error) {
	cerr := c.Close()
	if *err == nil {
		*err = cerr
	}
}
