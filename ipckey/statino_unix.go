//go:build unix

package ipckey

import (
	"os"
	"syscall"
)

// statInoDev extracts the inode and device numbers ftok(3) hashes together,
// available on every unix stat_t.
func statInoDev(st os.FileInfo) (ino uint64, dev uint64, ok bool) {
	sys, ok := st.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return uint64(sys.Ino), uint64(sys.Dev), true
}
