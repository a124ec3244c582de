// Package version holds the geoscope release version.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X github.com/mvdleeuw/geoscope/pkg/version.Version=v1.2.3".
var Version = "v0.4.0"
