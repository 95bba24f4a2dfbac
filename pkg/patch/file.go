package patch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/logging"
)

// Outcome describes what PatchFile did to one document.
type Outcome struct {
	Path    string `json:"path" yaml:"path"`
	Changed bool   `json:"changed" yaml:"changed"`
	Written bool   `json:"written" yaml:"written"`
	Bytes   int    `json:"bytes" yaml:"bytes"`
}

// Patcher applies marker patches to files on a filesystem.
type Patcher struct {
	fs     afero.Fs
	dryRun bool

	// beforeCommit runs between the read and the freshness check.
	beforeCommit func()
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithDryRun computes patches without writing them.
func WithDryRun(dryRun bool) Option {
	return func(p *Patcher) {
		p.dryRun = dryRun
	}
}

// NewPatcher creates a Patcher over fs. A nil fs means the OS filesystem.
func NewPatcher(fs afero.Fs, opts ...Option) *Patcher {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	p := &Patcher{fs: fs}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PatchFile rewrites the marker region of the file at path. The write is
// atomic: the new content goes to a temporary file in the same directory
// which is renamed over the original, keeping its mode. If the file changed
// between read and write the patch fails with errors.ErrDocumentChanged and
// the file is left as is. All failures are returned as *errors.PatchError.
func (p *Patcher) PatchFile(ctx context.Context, path, begin, end, fragment string) (Outcome, error) {
	logger := logging.FromContext(logging.WithDocument(ctx, path))
	outcome := Outcome{Path: path}

	before, err := p.fs.Stat(path)
	if err != nil {
		return outcome, &errors.PatchError{Document: path, Err: errors.WrapIO("stat", path, err)}
	}
	content, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return outcome, &errors.PatchError{Document: path, Err: errors.WrapIO("read", path, err)}
	}

	doc := string(content)
	updated, err := Patch(doc, begin, end, fragment)
	if err != nil {
		if me, ok := err.(*errors.MarkerError); ok {
			me.Document = path
		}
		return outcome, &errors.PatchError{Document: path, Err: err}
	}

	outcome.Bytes = len(updated)
	outcome.Changed = updated != doc
	if !outcome.Changed {
		logger.Debug().Msg("Document already up to date")
		return outcome, nil
	}
	if p.dryRun {
		logger.Info().Bool("dry_run", true).Msg("Document would be updated")
		return outcome, nil
	}

	if p.beforeCommit != nil {
		p.beforeCommit()
	}
	if err := p.verifyUnchanged(path, before.Size(), before.ModTime()); err != nil {
		return outcome, &errors.PatchError{Document: path, Err: err}
	}
	if err := p.writeAtomic(path, []byte(updated), before.Mode().Perm()); err != nil {
		return outcome, &errors.PatchError{Document: path, Err: err}
	}

	outcome.Written = true
	logger.Info().Int("bytes", outcome.Bytes).Msg("Updated document")
	return outcome, nil
}

func (p *Patcher) verifyUnchanged(path string, size int64, modTime time.Time) error {
	now, err := p.fs.Stat(path)
	if err != nil {
		return errors.WrapIO("stat", path, err)
	}
	if now.Size() != size || !now.ModTime().Equal(modTime) {
		return errors.ErrDocumentChanged
	}
	return nil
}

func (p *Patcher) writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(p.fs, dir, "."+base+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = p.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapIO("close", tmpName, err)
	}
	if err := p.fs.Chmod(tmpName, perm); err != nil {
		cleanup()
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := p.fs.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
