// Package version reports the build identity of a gostream binary.
//
// Version, commit and build time are set at compile time via -ldflags;
// anything left unset is filled from the module build info:
//
//	go build -ldflags "-X github.com/kbukum/gostream/version.Version=1.4.0"
//
// setup uses it to default Settings.Version and to tag the startup log.
package version
