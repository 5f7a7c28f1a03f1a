// Package version records the service version.
package version

// Version is the semver of the current release.
var Version = "0.3.1"

// DevVersion is the version used in dev and demo mode.
var DevVersion = "0.3.1"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}
