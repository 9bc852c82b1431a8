// Package file provides the on-disk primitives shared by the proof residue
// store and the worktodo layer: CRC-checked little-endian word files and
// line-granular edits of plain-text task files.
package file

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrCRCMismatch is returned when a checked file fails its trailer check.
var ErrCRCMismatch = errors.New("crc32 mismatch")

// MkdirAll creates a directory along with any necessary parents, owner-only.
func MkdirAll(dir string) error {
	return errors.Wrapf(os.MkdirAll(dir, 0700), "could not create directory %s", dir)
}

// Exists reports whether the given path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the byte size of path, or 0 if it cannot be read.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// WriteChecked writes words as little-endian 32-bit values followed by a
// CRC-32 (IEEE) trailer over the data bytes.
func WriteChecked(path string, words []uint32) error {
	buf := make([]byte, len(words)*4+4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	crc := crc32.ChecksumIEEE(buf[:len(words)*4])
	binary.LittleEndian.PutUint32(buf[len(words)*4:], crc)
	return errors.Wrapf(ioutil.WriteFile(path, buf, 0600), "could not write %s", path)
}

// ReadChecked reads back exactly nWords little-endian values written by
// WriteChecked and validates the CRC trailer.
func ReadChecked(path string, nWords uint32) ([]uint32, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	want := int(nWords)*4 + 4
	if len(buf) != want {
		return nil, errors.Errorf("short read of %s: %d bytes, want %d", path, len(buf), want)
	}
	data := buf[:len(buf)-4]
	crc := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if crc32.ChecksumIEEE(data) != crc {
		return nil, errors.Wrapf(ErrCRCMismatch, "%s", path)
	}
	words := make([]uint32, nWords)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// ReadLines returns the lines of a text file without their line endings.
// A missing file reads as empty.
func ReadLines(path string) ([]string, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	var lines []string
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// AppendLine appends line plus a newline to path, creating it if needed.
func AppendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return errors.Wrapf(err, "could not append to %s", path)
	}
	return nil
}

// DeleteLine rewrites path omitting the first line exactly equal to line.
// It reports whether a match was found and removed.
func DeleteLine(path, line string) (bool, error) {
	return deleteLine(path, line, -1)
}

// DeleteLineChecked is DeleteLine with optimistic change detection: the
// rewrite commits only if the file size at commit time equals expectedSize.
// A size mismatch aborts without writing and reports false. Size equality
// is only a heuristic; writers sharing the file must restrict themselves to
// appending and deleting whole lines.
func DeleteLineChecked(path, line string, expectedSize int64) (bool, error) {
	return deleteLine(path, line, expectedSize)
}

func deleteLine(path, line string, expectedSize int64) (bool, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "could not read %s", path)
	}
	var out bytes.Buffer
	found := false
	for _, l := range strings.Split(string(buf), "\n") {
		if !found && strings.TrimSuffix(l, "\r") == line {
			found = true
			continue
		}
		if l != "" {
			out.WriteString(l)
			out.WriteByte('\n')
		}
	}
	if !found {
		return false, nil
	}
	if expectedSize >= 0 && Size(path) != expectedSize {
		return false, nil
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := ioutil.WriteFile(tmp, out.Bytes(), 0600); err != nil {
		return false, errors.Wrapf(err, "could not write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, errors.Wrapf(err, "could not rename %s", tmp)
	}
	return true, nil
}
