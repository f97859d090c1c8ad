package gosrc

var handleImports = []string{`"fmt"`, `"unsafe"`}

const handleTemplate = `{{define "NativeHandle" -}}
{{template "header" .}}
// {{.Companion}} stores {{.Name}} as one pointer-sized word. It never owns the
// referenced resource.
type {{.Companion}} struct {
	value uintptr
}

// {{.Name}}Null is the null handle, equal to the zero value.
var {{.Name}}Null {{.Name}}

// {{.Name}}FromWord wraps a raw word.
func {{.Name}}FromWord(w uintptr) {{.Name}} {
	return {{.Name}}{ {{- .Companion}}: {{.Companion}}{value: w}}
}

// Word returns the raw word.
func (h {{.Companion}}) Word() uintptr {
	return h.value
}

// IsNull reports whether the word is zero.
func (h {{.Companion}}) IsNull() bool {
	return h.value == 0
}

// Equal reports whether both handles hold the same word.
func (h {{.Companion}}) Equal(other {{.Name}}) bool {
	return h.value == other.{{.Companion}}.value
}

// EqualWord reports whether the handle holds w.
func (h {{.Companion}}) EqualWord(w uintptr) bool {
	return h.value == w
}

// Hash mixes the word with the splitmix64 finalizer.
func (h {{.Companion}}) Hash() uint64 {
	x := uint64(h.value)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// String formats the word as 0x and zero-padded upper-case hex digits.
func (h {{.Companion}}) String() string {
	const width = int(unsafe.Sizeof(uintptr(0))) * 2
	return fmt.Sprintf("0x%0*X", width, h.value)
}
{{- if .IsPointer}}

// Pointer returns the word as {{.BaseType}}.
func (h {{.Companion}}) Pointer() {{.BaseType}} {
	return ({{.BaseType}})(*(*unsafe.Pointer)(unsafe.Pointer(&h.value)))
}

// {{.Name}}FromPointer wraps the address p.
func {{.Name}}FromPointer(p {{.BaseType}}) {{.Name}} {
	return {{.Name}}FromWord(uintptr(unsafe.Pointer(p)))
}
{{- end}}
{{end}}`
