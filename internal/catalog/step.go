package catalog

import (
	"context"
	"os"

	"github.com/opshall/hostforge/internal/cmdrun"
)

// BlockEdit is a marker-framed append-once edit to a config file.
type BlockEdit struct {
	Path    string
	Marker  string
	Content string
}

// FileEdit is a full-overwrite write of a config file at explicit
// permission bits.
type FileEdit struct {
	Path    string
	Content string
	Perm    os.FileMode
}

// Step is one ordered action of an install or uninstall sequence. Exactly
// one of Cmd, Apply, Remove, Write, or RemovePaths is set; steps are plain
// data so the dispatcher stays free of per-component branching.
type Step struct {
	Name string

	// Cmd is an external command argv. Benign lists output patterns whose
	// failures count as success (already installed, already absent).
	Cmd    []string
	Benign []string

	Apply       *BlockEdit // append-once block edit
	Remove      *BlockEdit // block removal; Content unused
	Write       *FileEdit  // full overwrite
	RemovePaths []string   // state paths deleted on uninstall; absence tolerated
}

// run executes the step against rt. Unexpected failures are returned for
// the caller to surface; benign command failures are swallowed.
func (s Step) run(ctx context.Context, rt *Runtime) error {
	switch {
	case len(s.Cmd) > 0:
		_, err := rt.Runner.Run(ctx, s.Cmd[0], s.Cmd[1:]...)
		if err != nil && !cmdrun.Benign(err, s.Benign) {
			return err
		}
		return nil
	case s.Apply != nil:
		_, err := rt.Editor.ApplyBlock(s.Apply.Path, s.Apply.Marker, s.Apply.Content)
		return err
	case s.Remove != nil:
		_, err := rt.Editor.RemoveBlock(s.Remove.Path, s.Remove.Marker)
		return err
	case s.Write != nil:
		return rt.Editor.ReplaceFile(s.Write.Path, []byte(s.Write.Content), s.Write.Perm)
	default:
		for _, path := range s.RemovePaths {
			if err := rt.Editor.RemovePath(path); err != nil {
				return err
			}
		}
		return nil
	}
}
