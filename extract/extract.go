// Package extract writes the entries of a ROM's file table out as
// individual files.
//
// Compressed entries are decompressed with the builtin yaz0 decoder by
// default, or by an external command when one is configured. A bad table
// entry never aborts the run: it is reported in the returned error and the
// walk continues, so one corrupt row cannot prevent recovering the rest of
// the image.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/n64kit/z64fs/dmadata"
	"github.com/n64kit/z64fs/yaz0"
)

// An Extractor writes table entries below Out. The zero value is not
// usable; Out must be set.
type Extractor struct {
	// Out is the directory extracted files are written to. It is created
	// if missing.
	Out string

	// Command is an external decompressor invoked per compressed entry
	// as "cmd <infile> <outfile>" after shell-style word splitting.
	// Empty means the builtin yaz0 decoder.
	Command string
}

// Run extracts every named entry of the table into x.Out. It returns the
// number of files written and, when entries failed, all per-entry failures
// joined into one error. Unnamed entries are skipped silently; that is what
// an absent name means.
func (x *Extractor) Run(image []byte, p dmadata.Profile) (n int, err error) {
	if err := os.MkdirAll(x.Out, 0o777); err != nil {
		return 0, err
	}

	var errs []error
	for e, derr := range dmadata.All(image, p) {
		if derr != nil {
			errs = append(errs, derr)
			continue
		}
		if e.Name == "" {
			continue
		}
		if err := x.extract(image, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

func (x *Extractor) extract(image []byte, e dmadata.Entry) error {
	if !fs.ValidPath(e.Name) {
		return errors.New("name not usable as path")
	}
	start, end := int64(e.PhysStart), int64(e.PhysStart)+int64(e.Size())
	if end > int64(len(image)) {
		return fmt.Errorf("data %#x..%#x past end of image", start, end)
	}
	raw := image[start:end]

	outpath := filepath.Join(x.Out, filepath.FromSlash(e.Name))
	if dir := filepath.Dir(outpath); dir != x.Out {
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return err
		}
	}

	if !e.Compressed() {
		return os.WriteFile(outpath, raw, 0o666)
	}
	if x.Command != "" {
		return x.runCommand(raw, outpath)
	}
	data, err := yaz0.Decode(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(outpath, data, 0o666)
}

// runCommand feeds one compressed entry through the external decompressor.
func (x *Extractor) runCommand(raw []byte, outpath string) error {
	args, err := shellquote.Split(x.Command)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("empty decompressor command")
	}

	in, err := os.CreateTemp("", "z64fs")
	if err != nil {
		return err
	}
	defer os.Remove(in.Name())
	if _, err := in.Write(raw); err != nil {
		in.Close()
		return err
	}
	if err := in.Close(); err != nil {
		return err
	}

	cmd := exec.Command(args[0], append(args[1:], in.Name(), outpath)...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
