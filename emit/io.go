package emit

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Source supplies the raw header text
type Source interface {
	Name() string
	Read() ([]byte, error)
}

// Sink receives one complete artifact in two phases
// Stage prepares the artifact without making it visible; Commit on the returned
// Pending replaces the target. Callers stage every artifact before committing any.
type Sink interface {
	Name() string
	Stage(data []byte) (Pending, error)
}

// Pending is a staged artifact
type Pending interface {
	Commit() error
	Discard()
}

// Write stages and commits a single artifact
func Write(s Sink, data []byte) error {
	p, err := s.Stage(data)
	if err != nil {
		return err
	}
	return p.Commit()
}

// FileSource reads a file from disk
type FileSource struct {
	Path string
}

func (s FileSource) Name() string {
	return filepath.ToSlash(s.Path)
}

// Read returns the file content; a missing file yields an error matching fs.ErrNotExist
func (s FileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.Path)
	}
	return data, nil
}

// FileSink replaces a file atomically
type FileSink struct {
	Path string
	Perm fs.FileMode // 0 means 0644
}

func (s FileSink) Name() string {
	return filepath.ToSlash(s.Path)
}

// Stage creates missing parent directories and writes data to a synced temp file
// next to the target. The target is untouched until Commit renames the temp file over it.
func (s FileSink) Stage(data []byte) (_ Pending, err error) {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return nil, errors.Wrapf(err, "create temp file for %s", s.Path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return nil, errors.Wrapf(err, "write %s", tmpName)
	}
	if err = tmp.Sync(); err != nil {
		return nil, errors.Wrapf(err, "sync %s", tmpName)
	}
	if err = tmp.Close(); err != nil {
		return nil, errors.Wrapf(err, "close %s", tmpName)
	}

	perm := s.Perm
	if perm == 0 {
		perm = 0644
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return nil, errors.Wrapf(err, "chmod %s", tmpName)
	}

	return &stagedFile{tmp: tmpName, target: s.Path, size: len(data)}, nil
}

// Write replaces the file atomically
func (s FileSink) Write(data []byte) error {
	return Write(s, data)
}

type stagedFile struct {
	tmp    string
	target string
	size   int
}

// Commit renames the temp file over the target; readers see the old file or the new one
func (f *stagedFile) Commit() error {
	if err := os.Rename(f.tmp, f.target); err != nil {
		os.Remove(f.tmp)
		return errors.Wrapf(err, "replace %s", f.target)
	}
	log.Printf("Wrote %s (%d bytes)", f.target, f.size)
	return nil
}

func (f *stagedFile) Discard() {
	os.Remove(f.tmp)
}

// MemorySource serves fixed content, or fs.ErrNotExist when Missing is set
type MemorySource struct {
	Label   string
	Data    []byte
	Missing bool
}

func (s *MemorySource) Name() string {
	return s.Label
}

func (s *MemorySource) Read() ([]byte, error) {
	if s.Missing {
		return nil, errors.Wrapf(fs.ErrNotExist, "read %s", s.Label)
	}
	return s.Data, nil
}

// MemorySink keeps the last artifact committed to it
type MemorySink struct {
	Label      string
	Data       []byte
	Writes     int   // commits
	Staged     int   // stages not yet committed or discarded
	Fail       error // returned by Stage when set
	FailCommit error // returned by Commit when set
}

func (s *MemorySink) Name() string {
	return s.Label
}

func (s *MemorySink) Stage(data []byte) (Pending, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.Staged++
	return &stagedMemory{sink: s, data: append([]byte(nil), data...)}, nil
}

type stagedMemory struct {
	sink *MemorySink
	data []byte
}

func (m *stagedMemory) Commit() error {
	m.sink.Staged--
	if m.sink.FailCommit != nil {
		return m.sink.FailCommit
	}
	m.sink.Data = m.data
	m.sink.Writes++
	return nil
}

func (m *stagedMemory) Discard() {
	m.sink.Staged--
}
