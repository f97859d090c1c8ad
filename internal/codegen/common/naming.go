package common

import (
	"path/filepath"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/codegen/annotation"
)

// GeneratedHeader starts every file this tool writes. go vet and most editors
// recognize the form and treat the file as generated.
const GeneratedHeader = "// Code generated by unmanagedgen. DO NOT EDIT."

// CompanionName is the type the generator defines for a host type, and that
// the host must embed: "Path" + FixedChars -> "PathFixedChars".
func CompanionName(host string, kind annotation.Kind) string {
	return host + kind.String()
}

// ArtifactKey names the artifact for a host and kind: "Path_FixedChars".
func ArtifactKey(host string, kind annotation.Kind) string {
	return host + "_" + kind.String()
}

// ArtifactFileName derives the generated file name from the host type, the
// kind and the file the host is declared in. Platform suffixes of the host
// file carry over so the artifact builds under the same GOOS/GOARCH:
// ("HWND", NativeHandle, "types_windows.go") -> "hwnd_native_handle_gen_windows.go".
func ArtifactFileName(host string, kind annotation.Kind, hostFile string) string {
	return ToSnakeCase(host) + "_" + ToSnakeCase(kind.String()) + "_gen" + PlatformSuffix(filepath.Base(hostFile)) + ".go"
}

// IsGenerated reports whether src starts with this tool's header.
func IsGenerated(src []byte) bool {
	return strings.HasPrefix(string(src), GeneratedHeader)
}

func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		isUpper := r >= 'A' && r <= 'Z'

		if i > 0 && isUpper && runes[i-1] != '_' {
			// "someWord" -> "some_word"
			prevIsLower := runes[i-1] >= 'a' && runes[i-1] <= 'z' || runes[i-1] >= '0' && runes[i-1] <= '9'

			// "XMLParser" -> "xml_parser", not "x_m_l_parser"
			nextIsLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'

			if prevIsLower || nextIsLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
