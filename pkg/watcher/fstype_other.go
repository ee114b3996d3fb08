//go:build !linux

package watcher

// remoteFilesystem is a no-op off Linux; fsnotify setup failures still fall
// back to polling.
func remoteFilesystem(string) bool { return false }
