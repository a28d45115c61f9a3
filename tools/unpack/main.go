// Copyright 2024 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unpack

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/n64kit/z64fs/dmadata"
	"github.com/n64kit/z64fs/extract"
	"github.com/n64kit/z64fs/rom"
)

const usageString = `Extract a ROM's files to a directory.

Usage: %s [flags] <romfile>

Only named entries are extracted, so a name list is required for anything
beyond a dry run. Bad table entries are reported and skipped.

`

var (
	flags = flag.NewFlagSet("unpack", flag.ExitOnError)

	infile  string
	version = flags.String("version", "", "game release, e.g. 'oot ntsc 1.0'")
	names   = flags.String("names", "", "`file` with one entry name per line")
	outdir  = flags.String("o", "files", "output `directory`")
	decomp  = flags.String("d", "", "external decompressor `command`, run as 'command <in> <out>'")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "unpack")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() == 1 {
		infile = flags.Arg(0)
	} else {
		flags.Usage()
		os.Exit(1)
	}

	p := profile(*version, *names)
	img, err := rom.LoadFile(infile)
	if err != nil {
		log.Fatalln(err)
	}

	x := extract.Extractor{Out: *outdir, Command: *decomp}
	n, err := x.Run(img.Bytes(), p)
	if err != nil {
		log.Println(err)
	}
	log.Printf("extracted %d files to %s", n, *outdir)
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
