package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version is the module version, overridden at build time:
//
//	go build -ldflags "-X github.com/kbukum/streamkit/version.Version=1.2.0"
var Version = "dev"

// Info describes the running build.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	Dirty     bool      `json:"dirty,omitempty"`
	GoVersion string    `json:"go_version,omitempty"`
	BuildDate time.Time `json:"build_date,omitempty"`
}

// Get combines the ldflags version with the VCS metadata the Go
// toolchain embeds into the binary.
func Get() Info {
	info := Info{Version: Version}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			if len(info.Commit) > 7 {
				info.Commit = info.Commit[:7]
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				info.BuildDate = t
			}
		}
	}
	return info
}

// Release reports whether this is a tagged release build rather than a
// dev or dirty tree.
func (i Info) Release() bool {
	return i.Version != "dev" && !i.Dirty
}

// Short renders "version-commit[-dirty]" for log and resource fields.
func (i Info) Short() string {
	s := i.Version
	if i.Commit != "" {
		s += "-" + i.Commit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// String renders the full human-readable build description.
func (i Info) String() string {
	s := i.Short()
	if i.GoVersion != "" {
		s += " " + i.GoVersion
	}
	if !i.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", i.BuildDate.Format(time.RFC3339))
	}
	return s
}
