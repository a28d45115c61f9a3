//go:build linux || darwin

package mount

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"

	"rsc.io/rsc/fuse"

	"github.com/n64kit/z64fs/dmadata"
	"github.com/n64kit/z64fs/rom"
	"github.com/n64kit/z64fs/romfs"
)

const usageString = `Serve a ROM's files as a read-only fuse filesystem.

Usage: %s [flags] <romfile> <dir>

`

var (
	flags = flag.NewFlagSet("mount", flag.ExitOnError)

	version = flags.String("version", "", "game release, e.g. 'oot ntsc 1.0'")
	names   = flags.String("names", "", "`file` with one entry name per line")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "mount")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 2 {
		flags.Usage()
		os.Exit(1)
	}
	infile, dir := flags.Arg(0), flags.Arg(1)

	p := profile(*version, *names)
	img, err := rom.LoadFile(infile)
	if err != nil {
		log.Fatalln(err)
	}
	fsys, err := romfs.Read(img.Bytes(), p)
	if err != nil {
		log.Println(err) // bad entries are not served, the rest is
	}

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)

	c, err := fuse.Mount(dir)
	if err != nil {
		log.Fatalln(err)
	}
	go c.Serve(&fusefs{fsys})
	<-sigintr

	cmd := exec.Command("/bin/umount", dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Fatalln(string(out), err)
	}
}

func profile(version, namesfile string) dmadata.Profile {
	if version == "" {
		log.Fatalln("missing -version, known releases:", dmadata.Releases())
	}
	p, err := dmadata.Lookup(version)
	if err != nil {
		log.Fatalln(err)
	}
	if namesfile != "" {
		f, err := os.Open(namesfile)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		list, err := dmadata.LoadNames(f)
		if err != nil {
			log.Fatalln(err)
		}
		p, err = p.WithNames(list)
		if err != nil {
			log.Fatalln("names:", err)
		}
	}
	return p
}
