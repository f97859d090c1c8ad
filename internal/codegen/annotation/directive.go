package annotation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Prefix starts every directive comment. Like //go: directives there is no
// space after the slashes.
const Prefix = "//unmanaged:"

// ErrNotDirective is returned by ParseDirective for comments that are not
// //unmanaged: directives at all.
var ErrNotDirective = errors.New("not an unmanaged directive")

var keyedArgs = map[string]bool{
	"length": true,
	"type":   true,
	"base":   true,
}

// Directive is the tokenized form of one directive comment. Arguments are not
// resolved yet.
type Directive struct {
	Text  string
	Verb  string
	Kind  Kind // KindInvalid for unknown verbs
	Args  []string
	Keyed map[string]string
}

// ParseDirective tokenizes a raw comment such as
//
//	//unmanaged:buffer 16 byte
//	//unmanaged:buffer length=16 type=byte
//	//unmanaged:handle "*ItemIDList"
//	//unmanaged:chars length="MaxPath + 1"
//
// Quoted arguments may contain spaces.
// It returns ErrNotDirective for comments without the prefix, and a
// descriptive error for malformed directives.
func ParseDirective(comment string) (Directive, error) {
	if !strings.HasPrefix(comment, Prefix) {
		return Directive{}, ErrNotDirective
	}
	fields, err := splitArgs(comment[len(Prefix):])
	if err != nil {
		return Directive{}, err
	}
	if len(fields) == 0 {
		return Directive{}, fmt.Errorf("missing directive verb after %q", Prefix)
	}

	d := Directive{
		Text:  strings.TrimSpace(comment),
		Verb:  fields[0],
		Keyed: map[string]string{},
	}
	d.Kind, _ = KindForVerb(d.Verb)

	for _, f := range fields[1:] {
		if key, val, ok := strings.Cut(f, "="); ok && keyedArgs[key] {
			if _, dup := d.Keyed[key]; dup {
				return d, fmt.Errorf("argument %q given more than once", key)
			}
			d.Keyed[key] = unquote(val)
			continue
		}
		d.Args = append(d.Args, unquote(f))
	}
	return d, nil
}

// Bind assigns the directive's arguments to params. Keyed arguments bind by
// name, positional arguments fill the remaining params in order. The first
// required params must end up bound.
func (d Directive) Bind(params []string, required int) (map[string]string, error) {
	out := make(map[string]string, len(params))
	for key, val := range d.Keyed {
		if !slices.Contains(params, key) {
			return nil, fmt.Errorf("unmanaged:%s does not take %q", d.Verb, key)
		}
		out[key] = val
	}

	pos := 0
	for _, p := range params {
		if _, ok := out[p]; ok {
			continue
		}
		if pos < len(d.Args) {
			out[p] = d.Args[pos]
			pos++
		}
	}
	if pos < len(d.Args) {
		return nil, fmt.Errorf("unmanaged:%s takes at most %d argument(s), got %d", d.Verb, len(params), len(d.Args)+len(d.Keyed))
	}
	for _, p := range params[:required] {
		if _, ok := out[p]; !ok {
			return nil, fmt.Errorf("unmanaged:%s is missing %s", d.Verb, p)
		}
	}
	return out, nil
}

// splitArgs splits text at white space outside quotes. A double-quoted or
// backquoted run stays in its field, quotes included, so key="a b" is one
// field.
func splitArgs(text string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inField bool
		quote   rune
		escaped bool
	)
	for _, r := range text {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case quote == '"' && r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case unicode.IsSpace(r):
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			inField = true
			cur.WriteRune(r)
			if r == '"' || r == '`' {
				quote = r
			}
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
