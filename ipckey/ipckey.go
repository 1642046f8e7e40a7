// Package ipckey derives platform IPC identifiers from a logical name, the
// way named semaphores and named shared memory turn a user-chosen string
// into a System-V ftok key or a POSIX-style short name. The derivation is
// suffix-append (caller-chosen, e.g. "_p_sem_object") then SHA-1 hex of the
// result, grounded line-for-line on pipc.c's p_ipc_get_platform_key.
package ipckey

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Suffix strings the two IPC-backed packages append before hashing, kept
// here so both agree on the exact bytes hashed for a given logical name.
const (
	SemaphoreSuffix = "_p_sem_object"
	SharedMemSuffix = "_p_shm_object"
)

var group singleflight.Group

// hashName returns the lowercase hex SHA-1 of name+suffix, matching
// p_crypto_hash_get_string(SHA1) over the suffixed name.
func hashName(name, suffix string) string {
	sum := sha1.Sum([]byte(name + suffix))
	return hex.EncodeToString(sum[:])
}

// POSIXName returns a POSIX semaphore/shared-memory-style name: a leading
// slash followed by the SHA-1 hash truncated to 13 characters (14 total
// with the slash), the limit pipc.c documents several POSIX
// implementations enforce.
func POSIXName(name, suffix string) (string, error) {
	if name == "" {
		return "", errors.New("ipckey: name must not be empty")
	}
	v, _, _ := group.Do("posix:"+suffix+":"+name, func() (any, error) {
		h := hashName(name, suffix)
		if len(h) > 13 {
			h = h[:13]
		}
		return "/" + h, nil
	})
	return v.(string), nil
}

// TempFileName returns the full path of the SysV key file this name would
// use: hashName(name, suffix) inside the host temp directory, matching
// p_ipc_get_platform_key's posix=FALSE path.
func TempFileName(name, suffix string) (string, error) {
	if name == "" {
		return "", errors.New("ipckey: name must not be empty")
	}
	v, _, _ := group.Do("file:"+suffix+":"+name, func() (any, error) {
		dir := tempDir()
		return filepath.Join(dir, hashName(name, suffix)), nil
	})
	return v.(string), nil
}

// tempDir mirrors p_ipc_unix_get_temp_dir: $TMPDIR if set and non-empty,
// else "/tmp".
func tempDir() string {
	if d := os.Getenv("TMPDIR"); d != "" {
		return filepath.Clean(d)
	}
	return "/tmp"
}

// EnsureKeyFile creates the SysV key file at path if it does not already
// exist, mode 0640, matching p_ipc_unix_create_key_file. Returns
// (created, error): created is true only if this call made the file.
func EnsureKeyFile(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDONLY, 0640)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "ipckey: failed to create key file")
	}
	f.Close()
	return true, nil
}

// FtokKey derives a System-V IPC key from a key file, the Go equivalent of
// ftok(3) with the original's fixed project id 'P' (0x50): the low 8 bits
// of the proj id in bits 24-31, the low 8 bits of the file's device number
// in bits 16-23, and the low 16 bits of the file's inode in bits 0-15, the
// way glibc's ftok packs them.
func FtokKey(path string) (int32, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "ipckey: failed to stat key file")
	}
	ino, dev, ok := statInoDev(st)
	if !ok {
		return 0, errors.New("ipckey: platform does not expose inode/device numbers")
	}
	const projID = 'P'
	key := (int32(projID&0xff) << 24) | (int32(dev&0xff) << 16) | int32(ino&0xffff)
	return key, nil
}
