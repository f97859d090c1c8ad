package gosrc

var bufferImports = []string{`"fmt"`, `"strings"`, `"unsafe"`}

const bufferTemplate = `{{define "FixedBuffer" -}}
{{template "header" .}}
// {{.Companion}} holds {{.Length}} contiguous {{.ElemType}} elements for {{.Name}}.
type {{.Companion}} struct {
	value [{{.Length}}]{{.ElemType}}
}

// Elements returns the backing storage. Writes through the slice modify the
// value in place.
func (b *{{.Companion}}) Elements() []{{.ElemType}} {
	return b.value[:]
}

// Len returns the element count.
func (b {{.Companion}}) Len() int {
	return {{.Length}}
}

// String renders each element as fixed-width upper-case hex, in order.
func (b {{.Companion}}) String() string {
	var sb strings.Builder
	sb.Grow({{.HexCap}})
{{- if .IntegerHex}}
	const width = int(unsafe.Sizeof(b.value[0])) * 2
	for _, v := range b.value {
		fmt.Fprintf(&sb, "%0*X", width, {{.ElemUnsigned}}(v))
	}
{{- else}}
	const size = int(unsafe.Sizeof(b.value[0]))
	for i := range b.value {
		fmt.Fprintf(&sb, "%X", unsafe.Slice((*byte)(unsafe.Pointer(&b.value[i])), size))
	}
{{- end}}
	return sb.String()
}
{{end}}`
