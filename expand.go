package o2tprep

import (
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/omni2tree/o2tprep/logging"
)

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			logging.Fatal(pfx.Err(err))
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path
}
