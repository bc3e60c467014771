package printf

import (
	"errors"
	"strings"

	"github.com/corelog/flogger/core"
)

var (
	errTooLarge = errors.New("value exceeds the maximum of 999999")
	errTooSmall = errors.New("value is below the minimum allowed")
)

// Flags is a bitset of the printf flag characters defined in spec.md
// §4.3: '-' (left-align), '#' (alternate), '+' (plus-for-positive),
// ' ' (space-for-positive), '0' (zero-pad), ',' (grouping), and '('
// (parens-for-negative).
type Flags uint8

const (
	FlagLeftAlign Flags = 1 << iota
	FlagAlternate
	FlagPlus
	FlagSpace
	FlagZero
	FlagGrouping
	FlagParens
)

// Unset is the sentinel width/precision value meaning "not specified".
const Unset = -1

// Options is the immutable (flags, width, precision) triple attached to
// a parsed printf term (spec.md §4.4). Default (no flags, unset width
// and precision) is returned by ParseOptions whenever possible, so
// callers can compare against it by value to detect "no formatting
// options at all" cheaply.
type Options struct {
	Flags     Flags
	Width     int
	Precision int
}

// Default is the singleton "no options" instance: no flags, unset
// width, unset precision.
var Default = Options{Width: Unset, Precision: Unset}

// flagChars lists every recognized flag character, in the canonical
// emission order required by AppendTo: " #(+,-0".
var flagChars = []struct {
	ch   byte
	flag Flags
}{
	{' ', FlagSpace},
	{'#', FlagAlternate},
	{'(', FlagParens},
	{'+', FlagPlus},
	{',', FlagGrouping},
	{'-', FlagLeftAlign},
	{'0', FlagZero},
}

func flagFor(ch byte) (Flags, bool) {
	switch ch {
	case '-':
		return FlagLeftAlign, true
	case '#':
		return FlagAlternate, true
	case '+':
		return FlagPlus, true
	case ' ':
		return FlagSpace, true
	case '0':
		return FlagZero, true
	case ',':
		return FlagGrouping, true
	case '(':
		return FlagParens, true
	default:
		return 0, false
	}
}

// ParseOptions parses the flags/width/[.precision] portion of a printf
// term (excluding the leading '%', any index prefix, and the trailing
// type character). It returns Default whenever the parsed result
// carries no flags, width, or precision, enabling callers to compare by
// value.
func ParseOptions(s string) (Options, error) {
	opts, i, err := scan(s, 0)
	if err != nil {
		return Options{}, err
	}
	if i != len(s) {
		return Options{}, &core.ParseError{Message: "unexpected character '" + string(s[i]) + "' in format options", Start: i, End: i + 1}
	}
	if opts == (Options{Flags: 0, Width: Unset, Precision: Unset}) {
		return Default, nil
	}
	return opts, nil
}

// scan parses flags/width/[.precision] starting at byte offset start,
// stopping at the first byte that cannot extend the options (typically
// the term's conversion character). It returns the parsed options and
// the offset of that stopping byte.
func scan(s string, start int) (Options, int, error) {
	opts := Options{Width: Unset, Precision: Unset}
	i := start

	for i < len(s) {
		flag, ok := flagFor(s[i])
		if !ok {
			break
		}
		if opts.Flags&flag != 0 {
			return Options{}, 0, &core.ParseError{Message: "duplicate flag '" + string(s[i]) + "'", Start: i, End: i + 1}
		}
		opts.Flags |= flag
		i++
	}

	if i < len(s) && isDigit(s[i]) {
		// '0' is consumed by the flag loop above, so digits reaching
		// here never start with '0'.
		wstart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		n, err := parseBoundedInt(s[wstart:i], 1, 999999)
		if err != nil {
			return Options{}, 0, &core.ParseError{Message: "invalid width: " + err.Error(), Start: wstart, End: i}
		}
		opts.Width = n
	}

	if i < len(s) && s[i] == '.' {
		dotPos := i
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return Options{}, 0, &core.ParseError{Message: "'.' must be followed by a precision digit", Start: dotPos, End: dotPos + 1}
		}
		pstart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		digits := s[pstart:i]
		if len(digits) > 1 && digits[0] == '0' {
			return Options{}, 0, &core.ParseError{Message: "precision leading zero only allowed for the value 0 itself", Start: pstart, End: i}
		}
		n, err := parseBoundedInt(digits, 0, 999999)
		if err != nil {
			return Options{}, 0, &core.ParseError{Message: "invalid precision: " + err.Error(), Start: pstart, End: i}
		}
		opts.Precision = n
	}

	return opts, i, nil
}

// Filter returns an instance with only the allowed flags retained, and
// width/precision cleared when not permitted. It returns the receiver
// unchanged (same value) when nothing needed stripping, and never
// returns a combination that parse-time validation would reject.
func (o Options) Filter(allowedFlags Flags, allowWidth, allowPrecision bool) Options {
	out := o
	out.Flags &= allowedFlags
	if !allowWidth {
		out.Width = Unset
	}
	if !allowPrecision {
		out.Precision = Unset
	}
	return out
}

// AppendTo appends the canonical printf-source rendering of o (flags in
// canonical order, then width, then .precision) to dst. The upper-case
// flag is never emitted here; it is carried by the caller's choice of
// type character.
func (o Options) AppendTo(dst *strings.Builder) {
	for _, fc := range flagChars {
		if o.Flags&fc.flag != 0 {
			dst.WriteByte(fc.ch)
		}
	}
	if o.Width != Unset {
		dst.WriteString(itoa(o.Width))
	}
	if o.Precision != Unset {
		dst.WriteByte('.')
		dst.WriteString(itoa(o.Precision))
	}
}

// String renders o the same way AppendTo does.
func (o Options) String() string {
	var b strings.Builder
	o.AppendTo(&b)
	return b.String()
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func parseBoundedInt(digits string, min, max int) (int, error) {
	n := 0
	for _, c := range digits {
		n = n*10 + int(c-'0')
		if n > max {
			return 0, errTooLarge
		}
	}
	if n < min {
		return 0, errTooSmall
	}
	return n, nil
}
