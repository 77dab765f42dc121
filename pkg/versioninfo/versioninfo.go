package versioninfo

// Set at build time with
// -ldflags "-X github.com/brk3/habittracker/pkg/versioninfo.Version=... -X ...BuildDate=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
)

type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
}

func Current() VersionInfo {
	return VersionInfo{Version: Version, BuildDate: BuildDate}
}
