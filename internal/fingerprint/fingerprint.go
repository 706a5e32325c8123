// Package fingerprint hashes the contents of a file set so a cached analysis
// can be reused only while every input is unchanged.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"
)

// Files returns a hex digest over the names and contents of paths, read
// relative to root. Order of paths does not matter. salt is mixed in first so
// that settings which change the output also change the digest.
func Files(root string, paths []string, salt string) (string, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := xxh3.New()
	writeField(h, []byte(salt))
	for _, p := range sorted {
		writeField(h, []byte(filepath.ToSlash(p)))
		if err := hashFile(h, filepath.Join(root, p)); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeField writes b length-prefixed so adjacent fields cannot collide.
func writeField(w io.Writer, b []byte) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
	_, _ = w.Write(n[:])
	_, _ = w.Write(b)
}

func hashFile(h *xxh3.Hasher, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(info.Size()))
	_, _ = h.Write(n[:])
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	return nil
}
