package version

import "fmt"

const (
	// Version is the current version of Keepsake
	Version = "0.1.0"
)

// GetVersion returns the current version string
func GetVersion() string {
	return fmt.Sprintf("Keepsake %s", Version)
}
