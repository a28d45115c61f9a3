// Copyright 2024 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/n64kit/z64fs/dmadata"
	"github.com/n64kit/z64fs/rom"
)

const usageString = `Print a ROM's DMA file table as CSV.

Usage: %s [flags] <romfile>

One line per entry: index, name, virtual start/end, physical start/end and
the compressed flag. Entries that fail to decode are reported on stderr and
skipped.

`

var (
	flags = flag.NewFlagSet("dump", flag.ExitOnError)

	infile  string
	version = flags.String("version", "", "game release, e.g. 'oot ntsc 1.0'")
	names   = flags.String("names", "", "`file` with one entry name per line")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "dump")
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

	h := img.Header()
	fmt.Fprintf(os.Stderr, "%s (%c%s%c v%d)\n",
		h.Title, h.CategoryCode, h.UniqueCode, h.DestinationCode, h.Version)

	for e, err := range dmadata.All(img.Bytes(), p) {
		if err != nil {
			log.Println(err)
			continue
		}
		fmt.Printf("%d,%s,%08X,%08X,%08X,%08X,%t\n",
			e.Index, e.Name, e.VirtStart, e.VirtEnd, e.PhysStart, e.PhysEnd, e.Compressed())
	}
}

// profile resolves the release label and attaches the optional name list.
// Shared contract of all tools: an unknown release is a configuration
// error, rejected here before any decoding happens.
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
