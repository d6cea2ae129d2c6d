// Package buildinfo reports how the running binary was built, from
// the build metadata stamped by the Go linker.
package buildinfo

import (
	"fmt"
	"runtime/debug"

	"github.com/omni2tree/o2tprep/logging"
)

type Info struct {
	Path       string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (i Info) String() string {
	commit := i.Commit
	if commit == "" {
		commit = "unknown"
	}

	mod := ""
	if i.Modified {
		mod = " (modified)"
	}

	return fmt.Sprintf("%s built with %s at commit %s%s %s", i.Path, i.GoVersion, commit, mod, i.CommitTime)
}

func Get() Info {
	out := Info{}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.Path = bi.Path
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Log writes the build description to the diagnostic stream.
func Log() {
	logging.Infof("%s", Get())
}
