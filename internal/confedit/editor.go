// Package confedit applies idempotent, backed-up edits to system
// configuration files. Every mutation goes through an atomic write so a
// target file is never observed half-written, and the first edit to any
// file in a session copies the original aside.
package confedit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/opshall/hostforge/internal/messages"
)

// BackupSuffix is appended to the original path for the per-session backup copy.
const BackupSuffix = ".hostforge.bak"

// FilesystemError reports a failed filesystem mutation with its path and
// underlying cause. Always fatal to the enclosing operation: a partial
// config write risks an inconsistent system.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

// Error formats the operation, path, and cause.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf(messages.ConfeditFilesystemErrorFmt, e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Diff is a user-facing preview of one applied edit.
type Diff struct {
	Path    string
	Unified string
}

// Editor applies config edits through a System seam. One Editor spans a
// session: the backup ledger guarantees at most one backup per original
// file per run.
type Editor struct {
	sys      System
	backedUp map[string]bool
	diffs    []Diff
}

// NewEditor creates an Editor over sys.
func NewEditor(sys System) *Editor {
	return &Editor{sys: sys, backedUp: make(map[string]bool)}
}

// Diffs returns previews of the edits applied so far, in order.
func (e *Editor) Diffs() []Diff {
	return e.diffs
}

// beginLine and endLine frame a managed block so it can be located and
// removed without guessing at its extent.
func beginLine(marker string) string { return marker + " begin" }
func endLine(marker string) string   { return marker + " end" }

// ApplyBlock appends a marker-framed content block to path unless the
// marker is already present. Returns true when the file was changed.
// The target file is created when missing; an existing file is backed up
// once per session before its first edit.
func (e *Editor) ApplyBlock(path string, marker string, content string) (bool, error) {
	existing, err := e.sys.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, &FilesystemError{Op: messages.ConfeditOpRead, Path: path, Err: err}
	}
	old := string(existing)
	if strings.Contains(old, beginLine(marker)) {
		return false, nil
	}

	if err == nil {
		if backupErr := e.backupOnce(path, existing); backupErr != nil {
			return false, backupErr
		}
	}

	var b strings.Builder
	b.WriteString(old)
	if old != "" && !strings.HasSuffix(old, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(beginLine(marker))
	b.WriteString("\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(endLine(marker))
	b.WriteString("\n")

	updated := b.String()
	if err := e.writeAtomic(path, []byte(updated), e.permFor(path)); err != nil {
		return false, err
	}
	e.recordDiff(path, old, updated)
	return true, nil
}

// RemoveBlock deletes the marker-framed block from path. Returns true when
// the file was changed; a missing file or absent marker is a no-op.
func (e *Editor) RemoveBlock(path string, marker string) (bool, error) {
	existing, err := e.sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &FilesystemError{Op: messages.ConfeditOpRead, Path: path, Err: err}
	}
	old := string(existing)
	lines := strings.Split(old, "\n")
	begin, end := beginLine(marker), endLine(marker)

	kept := make([]string, 0, len(lines))
	inBlock := false
	found := false
	for _, line := range lines {
		switch {
		case strings.TrimSpace(line) == begin:
			inBlock = true
			found = true
		case inBlock && strings.TrimSpace(line) == end:
			inBlock = false
		case !inBlock:
			kept = append(kept, line)
		}
	}
	if !found {
		return false, nil
	}

	if err := e.backupOnce(path, existing); err != nil {
		return false, err
	}
	updated := strings.Join(kept, "\n")
	if err := e.writeAtomic(path, []byte(updated), e.permFor(path)); err != nil {
		return false, err
	}
	e.recordDiff(path, old, updated)
	return true, nil
}

// ReplaceFile overwrites path with content at the requested permission
// bits. The parent directory is created when missing; the write is atomic.
func (e *Editor) ReplaceFile(path string, content []byte, perm os.FileMode) error {
	old := ""
	if existing, err := e.sys.ReadFile(path); err == nil {
		old = string(existing)
		if backupErr := e.backupOnce(path, existing); backupErr != nil {
			return backupErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &FilesystemError{Op: messages.ConfeditOpRead, Path: path, Err: err}
	}
	if err := e.sys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &FilesystemError{Op: messages.ConfeditOpMkdir, Path: filepath.Dir(path), Err: err}
	}
	if err := e.writeAtomic(path, content, perm); err != nil {
		return err
	}
	e.recordDiff(path, old, string(content))
	return nil
}

// RemovePath deletes path and any children. A missing path is a no-op, so
// uninstall steps can call this unconditionally.
func (e *Editor) RemovePath(path string) error {
	if err := e.sys.RemoveAll(path); err != nil {
		return &FilesystemError{Op: messages.ConfeditOpRemove, Path: path, Err: err}
	}
	return nil
}

// backupOnce copies the original content aside before the first edit to
// path in this session. Later edits to the same file reuse the ledger entry
// so the pristine original survives the whole run.
func (e *Editor) backupOnce(path string, original []byte) error {
	if e.backedUp[path] {
		return nil
	}
	backupPath := path + BackupSuffix
	if err := e.sys.WriteFileAtomic(backupPath, original, e.permFor(path)); err != nil {
		return &FilesystemError{Op: messages.ConfeditOpBackup, Path: backupPath, Err: err}
	}
	e.backedUp[path] = true
	return nil
}

func (e *Editor) writeAtomic(path string, data []byte, perm os.FileMode) error {
	if err := e.sys.WriteFileAtomic(path, data, perm); err != nil {
		return &FilesystemError{Op: messages.ConfeditOpWrite, Path: path, Err: err}
	}
	return nil
}

// permFor preserves the existing permission bits of path, defaulting to
// 0644 for new files.
func (e *Editor) permFor(path string) os.FileMode {
	info, err := e.sys.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

func (e *Editor) recordDiff(path string, old string, updated string) {
	if old == updated {
		return
	}
	unified := udiff.Unified("a/"+path, "b/"+path, old, updated)
	e.diffs = append(e.diffs, Diff{Path: path, Unified: unified})
}
