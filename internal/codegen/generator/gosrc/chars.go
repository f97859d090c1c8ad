package gosrc

var charsImports = []string{`"unicode/utf16"`}

const charsTemplate = `{{define "FixedChars" -}}
{{template "header" .}}
// {{.Companion}} holds {{.Length}} UTF-16 code units for {{.Name}}. The text
// ends at the first NUL unit.
type {{.Companion}} struct {
	value [{{.Length}}]uint16
}

// Chars returns the backing storage. Writes through the slice modify the
// value in place.
func (b *{{.Companion}}) Chars() []uint16 {
	return b.value[:]
}

// Len returns the capacity in code units.
func (b {{.Companion}}) Len() int {
	return {{.Length}}
}

// String decodes the units before the first NUL. It returns "" when the
// buffer holds no NUL.
func (b {{.Companion}}) String() string {
	for i, c := range b.value {
		if c == 0 {
			return string(utf16.Decode(b.value[:i]))
		}
	}
	return ""
}

// SetString stores s followed by NUL padding. Text beyond {{.Last}} code units
// is dropped, without splitting a surrogate pair.
func (b *{{.Companion}}) SetString(s string) {
	units := utf16.Encode([]rune(s))
	if len(units) > {{.Last}} {
		units = units[:{{.Last}}]
		if n := len(units); n > 0 && units[n-1] >= 0xD800 && units[n-1] < 0xDC00 {
			units = units[:n-1]
		}
	}
	n := copy(b.value[:], units)
	clear(b.value[n:])
}
{{end}}`
