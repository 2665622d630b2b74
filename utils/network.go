package utils

import (
	"path/filepath"
	"strings"
)

var networkMountPrefixes = []string{
	"/mnt/",      // Linux NFS/SMB mounts
	"/media/",    // Linux removable/network media
	"/Volumes/",  // macOS network volumes
	"/run/user/", // gvfs mounts
}

var networkFSMarkers = []string{"nfs", "cifs", "smb", "webdav", "sftp", "gvfs"}

// IsNetworkPath guesses whether dir lives on a network or removable mount.
// Probing every file there can take a long time, so scans warn about it.
func IsNetworkPath(dir string) bool {
	if strings.HasPrefix(dir, `\\`) || strings.HasPrefix(dir, "//") {
		return true
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	abs = filepath.ToSlash(abs)

	for _, prefix := range networkMountPrefixes {
		if strings.HasPrefix(abs, prefix) {
			return true
		}
	}

	lower := strings.ToLower(abs)
	for _, marker := range networkFSMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
