// Package romfs exposes the named entries of a ROM's DMA file table as a
// read-only [io/fs.FS].
//
// The table is decoded once when the filesystem is read. Every named entry
// becomes a file in the (flat) root directory; unnamed entries are not
// representable as files and are skipped. Entries stored compressed are run
// through the yaz0 decoder when opened, so file contents and sizes always
// refer to the decompressed data.
package romfs

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/n64kit/z64fs/dmadata"
	"github.com/n64kit/z64fs/yaz0"
)

type FS struct {
	image []byte
	files []file // sorted by name
}

// Read decodes the file table described by p and returns a filesystem over
// the named entries. Malformed table entries are skipped and reported
// joined in err; the returned FS is usable whenever at least the table
// range itself is within the image.
func Read(image []byte, p dmadata.Profile) (*FS, error) {
	fsys := &FS{image: image}
	var errs []error
	for e, err := range dmadata.All(image, p) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if e.Name == "" {
			continue
		}
		if !fs.ValidPath(e.Name) || strings.Contains(e.Name, "/") {
			errs = append(errs, &dmadata.EntryError{Index: e.Index, Err: errors.New("name not usable as filename")})
			continue
		}
		if int64(e.PhysStart)+int64(e.Size()) > int64(len(image)) {
			errs = append(errs, &dmadata.EntryError{Index: e.Index, Err: errors.New("data past end of image")})
			continue
		}
		fsys.files = append(fsys.files, file{name: e.Name, entry: e})
	}
	slices.SortFunc(fsys.files, func(a, b file) int {
		return strings.Compare(a.name, b.name)
	})
	return fsys, errors.Join(errs...)
}

var (
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)

// Open opens the named entry for reading.
//
// The returned file implements [io.Seeker] and [io.ReaderAt].
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &openDir{f: dotFile, files: f.files}, nil
	}
	fl := f.lookup(name)
	if fl == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	data, err := f.data(fl)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	r := io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data)))
	return &openFile{r, fl}, nil
}

// ReadDir reads the root directory. The table is flat, so any other name
// fails.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		if _, err := f.Open(name); err != nil {
			return nil, err
		}
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("not a directory")}
	}
	list := make([]fs.DirEntry, len(f.files))
	for i := range list {
		list[i] = &f.files[i]
	}
	return list, nil
}

// ReadFile reads and returns the content of the named entry.
func (f *FS) ReadFile(name string) ([]byte, error) {
	file, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// data returns the entry's decompressed contents.
func (f *FS) data(fl *file) ([]byte, error) {
	raw := f.image[fl.entry.PhysStart : fl.entry.PhysStart+fl.entry.Size()]
	if !fl.entry.Compressed() {
		return raw, nil
	}
	return yaz0.Decode(raw)
}

// lookup returns the named file, or nil if it is not present.
func (f *FS) lookup(name string) *file {
	i, found := slices.BinarySearchFunc(f.files, name, func(e file, s string) int {
		return strings.Compare(e.name, s)
	})
	if found {
		return &f.files[i]
	}
	return nil
}
