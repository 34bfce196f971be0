package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Overridden by release builds via -ldflags "-X". Dev builds fall back
// to the VCS metadata Go stamps into the binary.
var (
	Version   = defaultVersion
	Revision  = "HEAD"
	BuildDate = ""
)

const defaultVersion = "0.1.0-dev"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		fromBuildInfo(info.Main.Version, vcsSettings(info))
	}
	if BuildDate == "" {
		BuildDate = time.Now().UTC().Format(time.RFC3339)
	}
}

func vcsSettings(info *debug.BuildInfo) map[string]string {
	vcs := make(map[string]string, 3)
	for _, s := range info.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			vcs[s.Key] = s.Value
		}
	}
	return vcs
}

// fromBuildInfo fills in whatever ldflags left at its default.
func fromBuildInfo(mainVersion string, vcs map[string]string) {
	if Version == defaultVersion || Version == "" {
		if mainVersion != "" && mainVersion != "(devel)" {
			Version = strings.TrimPrefix(mainVersion, "v")
		}
	}

	if Revision == "HEAD" || Revision == "" {
		if rev := vcs["vcs.revision"]; rev != "" {
			if vcs["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Revision = rev
		}
	}

	if BuildDate == "" {
		BuildDate = vcs["vcs.time"]
	}
}

// Short is the version line for user-facing output: `0.1.0 (5e23a4)`.
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, Revision)
}

// Detailed adds the toolchain and platform for bug reports:
// `0.1.0 (5e23a4; go1.23.6; linux/amd64; 2026-01-02T03:04:05Z)`.
func Detailed() string {
	return fmt.Sprintf("%s (%s; %s; %s/%s; %s)",
		Version, Revision, runtime.Version(), runtime.GOOS, runtime.GOARCH, BuildDate)
}
