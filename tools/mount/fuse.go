//go:build linux || darwin

package mount

import (
	"errors"
	"io/fs"
	"log"
	"syscall"

	"rsc.io/rsc/fuse"

	"github.com/n64kit/z64fs/romfs"
)

// fusefs implements the file system and the root dir Node. The table is
// flat, so the root is the only directory.
type fusefs struct {
	romfs *romfs.FS
}

func (p *fusefs) Root() (fuse.Node, fuse.Error) {
	return p, nil
}

func (p *fusefs) Attr() fuse.Attr {
	return fuse.Attr{Mode: fs.ModeDir | 0555}
}

func (p *fusefs) Lookup(name string, intr fuse.Intr) (fuse.Node, fuse.Error) {
	f, err := p.romfs.Open(name)
	if err != nil {
		return nil, errno(err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, errno(err)
	}
	return &fusefile{p.romfs, name, info}, nil
}

func (p *fusefs) ReadDir(intr fuse.Intr) ([]fuse.Dirent, fuse.Error) {
	entries, err := p.romfs.ReadDir(".")
	if err != nil {
		return nil, errno(err)
	}
	fuseEntries := make([]fuse.Dirent, len(entries))
	for i, v := range entries {
		fuseEntries[i] = fuse.Dirent{
			Name: v.Name(),
		}
	}

	return fuseEntries, nil
}

// fusefile implements both Node and Handle. Reads decompress the whole
// entry, which is how the table is meant to be consumed anyway.
type fusefile struct {
	fsys *romfs.FS
	name string
	info fs.FileInfo
}

func (p *fusefile) Attr() fuse.Attr {
	return fuse.Attr{
		Mode: p.info.Mode(),
		Size: uint64(p.info.Size()),
	}
}

func (p *fusefile) ReadAll(intr fuse.Intr) ([]byte, fuse.Error) {
	b, err := p.fsys.ReadFile(p.name)
	if err != nil {
		log.Println("read:", err)
		return nil, errno(err)
	}
	return b, nil
}

func errno(err error) fuse.Error {
	if errors.Is(err, fs.ErrInvalid) {
		return fuse.Errno(syscall.EINVAL)
	} else if errors.Is(err, fs.ErrNotExist) {
		return fuse.Errno(syscall.ENOENT)
	} else {
		return fuse.EIO
	}
}
