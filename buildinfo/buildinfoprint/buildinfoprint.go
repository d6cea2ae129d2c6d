// Package buildinfoprint is imported for the side effect of logging
// the build description at startup.
package buildinfoprint

import "github.com/omni2tree/o2tprep/buildinfo"

func init() {
	buildinfo.Log()
}
