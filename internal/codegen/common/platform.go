package common

import "strings"

// Known GOOS and GOARCH values, as in go/build's syslist.
var knownOS = map[string]bool{
	"aix": true, "android": true, "darwin": true, "dragonfly": true,
	"freebsd": true, "hurd": true, "illumos": true, "ios": true, "js": true,
	"linux": true, "nacl": true, "netbsd": true, "openbsd": true, "plan9": true,
	"solaris": true, "wasip1": true, "windows": true, "zos": true,
}

var knownArch = map[string]bool{
	"386": true, "amd64": true, "amd64p32": true, "arm": true, "armbe": true,
	"arm64": true, "arm64be": true, "loong64": true, "mips": true, "mipsle": true,
	"mips64": true, "mips64le": true, "mips64p32": true, "mips64p32le": true,
	"ppc": true, "ppc64": true, "ppc64le": true, "riscv": true, "riscv64": true,
	"s390": true, "s390x": true, "sparc": true, "sparc64": true, "wasm": true,
}

// PlatformSuffix returns the implicit build-constraint suffix of a Go file
// name: "_windows", "_linux_amd64", "_arm64", or "".
func PlatformSuffix(fileName string) string {
	name := strings.TrimSuffix(fileName, ".go")
	name = strings.TrimSuffix(name, "_test")

	parts := strings.Split(name, "_")
	// The first element is never a constraint: "windows.go" has none.
	if len(parts) < 2 {
		return ""
	}
	n := len(parts)
	if n >= 3 && knownOS[parts[n-2]] && knownArch[parts[n-1]] {
		return "_" + parts[n-2] + "_" + parts[n-1]
	}
	if knownOS[parts[n-1]] || knownArch[parts[n-1]] {
		return "_" + parts[n-1]
	}
	return ""
}
