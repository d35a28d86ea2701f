package version

// version is overridden at build time via -ldflags.
var version = "0.1.0"

// Get returns the current version
func Get() string {
	return version
}
