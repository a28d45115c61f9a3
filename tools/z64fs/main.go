package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/n64kit/z64fs/tools/dump"
	"github.com/n64kit/z64fs/tools/mount"
	"github.com/n64kit/z64fs/tools/unpack"
)

const usageString = `z64fs is a tool for inspecting and unpacking n64 ROM file tables.

Usage:

	%s <command> [arguments]

The commands are:

	dump    print a ROM's file table as CSV
	unpack  extract a ROM's files to a directory
	mount   serve a ROM's files via fuse
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "dump":
		dump.Main(flag.Args())
	case "unpack":
		unpack.Main(flag.Args())
	case "mount":
		mount.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
