package common

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/Alia5/unmanagedgen"

// Version is set via ldflags at build time:
// -ldflags "-X github.com/Alia5/unmanagedgen/internal/codegen/common.Version=x.y.z"
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// BuildVersion returns the ldflags version or, when that is unset, the module
// version recorded by the go command. Under `go run module@version` or a
// go:generate line in a dependent module the latter is the only source.
// It returns "" for development builds of this module.
func BuildVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	if info.Main.Path == ModulePath && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		if dep.Version != "(devel)" {
			return dep.Version
		}
	}
	return ""
}

// GetVersion returns the build version without the leading "v".
// Returns "0.0.1-dev" if no version is known (development builds only).
func GetVersion() (string, error) {
	v := BuildVersion()
	if v == "" {
		return "0.0.1-dev", nil
	}

	version := strings.TrimPrefix(v, "v")
	baseVersion := strings.SplitN(version, "-", 2)[0]
	if !strings.Contains(baseVersion, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", v)
	}

	return version, nil
}
