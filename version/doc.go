// Package version reports the build version of the loghub binaries.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/loghub/version.Version=1.2.0" ./cmd/lhcat
//
// Unset values are filled from the module build info where available.
package version
