package main

import (
	_ "embed"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version returns the module version when installed with go install, and
// devel-<VERSION>[+<revision>][-dirty] for builds from a checkout.
func Version() string {
	base := strings.TrimSpace(embeddedVersion)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	version := "devel-" + base
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				version += "+" + s.Value[:7]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty {
		version += "-dirty"
	}
	return version
}

type VersionCmd struct {
	Short bool `help:"Print only the version."`
}

func (c *VersionCmd) Run() error {
	if c.Short {
		fmt.Println(Version())
		return nil
	}
	fmt.Printf("jsvgen %s (%s, %s/%s)\n", Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
