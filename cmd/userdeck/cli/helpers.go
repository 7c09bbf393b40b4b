package cli

import (
	"os"

	"github.com/userdeck/userdeck/internal/store"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from the --data-dir flag,
// USERDECK_DATA_DIR env var, or ~/.userdeck as fallback.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("USERDECK_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return home + "/.userdeck"
}

// openStore opens the SQLite user store at the resolved data directory.
func openStore() (*store.Store, error) {
	return store.New(resolveDataDir())
}
