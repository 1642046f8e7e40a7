//go:build windows

package ipckey

import "os"

// statInoDev has no Windows equivalent: Windows has no ftok/SysV IPC
// concept at all (pipc.c never compiles p_ipc_get_ftok_key on P_OS_WIN),
// so FtokKey is simply unsupported here.
func statInoDev(st os.FileInfo) (ino uint64, dev uint64, ok bool) {
	return 0, 0, false
}
