package annotation

// Kind identifies one of the three annotation variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFixedChars
	KindFixedBuffer
	KindNativeHandle
)

var kindNames = [...]string{
	KindInvalid:      "Invalid",
	KindFixedChars:   "FixedChars",
	KindFixedBuffer:  "FixedBuffer",
	KindNativeHandle: "NativeHandle",
}

var kindVerbs = [...]string{
	KindFixedChars:   "chars",
	KindFixedBuffer:  "buffer",
	KindNativeHandle: "handle",
}

// String returns the artifact suffix of the kind, e.g. "FixedChars".
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Verb returns the directive verb that selects the kind, e.g. "chars".
func (k Kind) Verb() string {
	if k == KindInvalid || int(k) >= len(kindVerbs) {
		return ""
	}
	return kindVerbs[k]
}

// KindForVerb maps a directive verb back to its kind.
func KindForVerb(verb string) (Kind, bool) {
	for k := KindFixedChars; k <= KindNativeHandle; k++ {
		if kindVerbs[k] == verb {
			return k, true
		}
	}
	return KindInvalid, false
}

// Kinds lists the valid kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindFixedChars, KindFixedBuffer, KindNativeHandle}
}
