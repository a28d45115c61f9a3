//go:build !linux && !darwin

package mount

import (
	"log"
	"runtime"
)

func Main(args []string) {
	log.Fatalf("mount is not supported on %s", runtime.GOOS)
}
