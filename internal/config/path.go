package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "listx"

// DefaultDataDir returns the default data directory for the host OS.
//
// Precedence: $XDG_DATA_HOME/listx, /var/lib/listx when writable-looking,
// the platform application-data directory, then ~/.listx. Without a home
// directory it falls back to ./data.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appDirName)
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Local", appDirName)
	}
	if isDir("/var/lib") {
		return filepath.Join("/var/lib", appDirName)
	}
	return filepath.Join(homeDir, "."+appDirName)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
