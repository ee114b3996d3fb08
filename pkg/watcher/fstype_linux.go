//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Filesystem magic numbers for network filesystems where inotify does not
// deliver reliable events (see statfs(2)).
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	smb2SuperMagic = 0xfe534d42
	cifsSuperMagic = 0xff534d42
	fuseSuperMagic = 0x65735546
)

// remoteFilesystem reports whether path lives on a filesystem where fsnotify
// is known to miss events and polling is the safer default.
func remoteFilesystem(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		// Unknown is treated as local; fsnotify setup failures still fall
		// back to polling later.
		return false
	}
	switch uint32(st.Type) {
	case nfsSuperMagic, smbSuperMagic, smb2SuperMagic, cifsSuperMagic, fuseSuperMagic:
		return true
	}
	return false
}
