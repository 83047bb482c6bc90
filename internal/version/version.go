// internal/version/version.go
package version

// Version is stamped by the release workflow; dev builds carry the suffix.
var Version = "0.3.0-dev"
