// Package message renders a printf-style template and its arguments
// into the final log message text (spec.md §4.4). Formatting never
// fails outright: a malformed template surfaces as a *core.ParseError
// before any argument is touched, but a well-formed term whose
// argument doesn't match its conversion renders as an inline
// FormatError placeholder instead of aborting the whole message.
package message

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"strconv"
	"strings"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/printf"
)

// Formattable lets an argument type take over rendering for its own
// printf conversion, bypassing the default reflection-based encoder.
// A non-nil error behaves exactly like any other conversion failure:
// it is rendered as an inline FormatError placeholder, never returned
// to the caller of Format.
type Formattable interface {
	FormatPrintf(verb byte, opts printf.Options) (string, error)
}

// Format parses template and renders it against args. It returns a
// *core.ParseError (escaping, per spec.md §7) only when template
// itself is ill-formed.
func Format(template string, args []any) (string, error) {
	tokens, err := printf.Parse(template)
	if err != nil {
		return "", err
	}
	return Render(tokens, args), nil
}

// Render renders an already-parsed token sequence against args. Used
// by callers that cache the parsed template across repeated log
// statements at the same log site.
func Render(tokens []printf.Token, args []any) string {
	var b strings.Builder
	implicit := 0
	lastResolved := -1

	for _, tok := range tokens {
		if tok.Literal != nil {
			b.WriteString(tok.Literal.Text)
			continue
		}
		term := tok.Term
		if term.Type == 'n' {
			b.WriteByte('\n')
			continue
		}

		var idx int
		switch term.IndexKind {
		case printf.IndexExplicit:
			idx = term.Index - 1
		case printf.IndexRelative:
			idx = lastResolved
		default:
			idx = implicit
			implicit++
		}
		lastResolved = idx

		if idx < 0 || idx >= len(args) {
			b.WriteString((&core.FormatError{Format: term.Raw, Type: "<missing>", Value: "<no argument>"}).Placeholder())
			continue
		}
		b.WriteString(formatTerm(term, args[idx]))
	}
	return b.String()
}

func formatTerm(term *printf.Term, arg any) string {
	s, err := convert(term, arg)
	if err != nil {
		if fe, ok := err.(*core.FormatError); ok {
			return fe.Placeholder()
		}
		return (&core.FormatError{Format: term.Raw, Type: typeName(arg), Value: safeString(arg)}).Placeholder()
	}
	if term.Upper {
		s = strings.ToUpper(s)
	}
	return s
}

func convert(term *printf.Term, arg any) (string, error) {
	if f, ok := arg.(Formattable); ok {
		return f.FormatPrintf(term.Type, term.Options)
	}

	switch term.Type {
	case 's':
		return padString(truncate(safeString(arg), term.Options), term.Options), nil
	case 'c':
		r, ok := toRune(arg)
		if !ok {
			return "", formatErr(term, arg)
		}
		return padString(string(r), term.Options), nil
	case 't':
		b, ok := arg.(bool)
		if !ok {
			return "", formatErr(term, arg)
		}
		return padString(strconv.FormatBool(b), term.Options), nil
	case 'h':
		return padString(fmt.Sprintf("%08x", identityHash(arg)), term.Options), nil
	case 'd':
		iv, ok := toInt64(arg)
		if !ok {
			return "", formatErr(term, arg)
		}
		return formatSigned(strconv.FormatInt(absInt64(iv), 10), iv < 0, term.Options), nil
	case 'x', 'o', 'b':
		uv, ok := toUint64(arg)
		if !ok {
			return "", formatErr(term, arg)
		}
		base := map[byte]int{'x': 16, 'o': 8, 'b': 2}[term.Type]
		mag := strconv.FormatUint(uv, base)
		if term.Options.Flags&printf.FlagAlternate != 0 {
			mag = map[byte]string{'x': "0x", 'o': "0", 'b': "0b"}[term.Type] + mag
		}
		return formatSigned(mag, false, term.Options), nil
	case 'f', 'e', 'g':
		fv, ok := toFloat(arg)
		if !ok {
			return "", formatErr(term, arg)
		}
		prec := term.Options.Precision
		if prec == printf.Unset {
			if term.Type == 'g' {
				prec = -1
			} else {
				prec = 6
			}
		}
		mag := strconv.FormatFloat(absFloat(fv), term.Type, prec, 64)
		return formatSigned(mag, isNegFloat(fv), term.Options), nil
	default:
		return "", formatErr(term, arg)
	}
}

func formatErr(term *printf.Term, arg any) error {
	return &core.FormatError{Format: term.Raw, Type: typeName(arg), Value: safeString(arg)}
}

// formatSigned applies the sign flags ('+' , ' ', '(') and then pads
// magnitude to width, zero-padding between the sign and the digits
// when the '0' flag is set (spec.md §4.3: flags never reorder around
// an already-rendered sign).
func formatSigned(magnitude string, negative bool, opts printf.Options) string {
	var sign string
	switch {
	case negative && opts.Flags&printf.FlagParens != 0:
		magnitude = "(" + magnitude + ")"
	case negative:
		sign = "-"
	case opts.Flags&printf.FlagPlus != 0:
		sign = "+"
	case opts.Flags&printf.FlagSpace != 0:
		sign = " "
	}
	if opts.Flags&printf.FlagGrouping != 0 {
		magnitude = groupDigits(magnitude)
	}

	body := sign + magnitude
	if opts.Width == printf.Unset || len(body) >= opts.Width {
		return body
	}
	pad := opts.Width - len(body)
	if opts.Flags&printf.FlagLeftAlign != 0 {
		return body + strings.Repeat(" ", pad)
	}
	if opts.Flags&printf.FlagZero != 0 {
		return sign + strings.Repeat("0", pad) + magnitude
	}
	return strings.Repeat(" ", pad) + body
}

// groupDigits inserts ',' every three digits of the integer part of a
// base-10 magnitude, leaving any existing parentheses or fractional
// part untouched.
func groupDigits(magnitude string) string {
	open, close := "", ""
	if len(magnitude) >= 2 && magnitude[0] == '(' && magnitude[len(magnitude)-1] == ')' {
		open, close, magnitude = "(", ")", magnitude[1:len(magnitude)-1]
	}
	intPart, rest := magnitude, ""
	if i := strings.IndexByte(magnitude, '.'); i >= 0 {
		intPart, rest = magnitude[:i], magnitude[i:]
	}
	if len(intPart) <= 3 {
		return open + magnitude + close
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return open + b.String() + rest + close
}

func truncate(s string, opts printf.Options) string {
	if opts.Precision == printf.Unset {
		return s
	}
	r := []rune(s)
	if len(r) <= opts.Precision {
		return s
	}
	return string(r[:opts.Precision])
}

func padString(s string, opts printf.Options) string {
	if opts.Width == printf.Unset {
		return s
	}
	n := len([]rune(s))
	if n >= opts.Width {
		return s
	}
	pad := strings.Repeat(" ", opts.Width-n)
	if opts.Flags&printf.FlagLeftAlign != 0 {
		return s + pad
	}
	return pad + s
}

func typeName(arg any) string {
	if arg == nil {
		return "nil"
	}
	return reflect.TypeOf(arg).String()
}

// safeString renders arg's human-readable form, recovering a panicking
// Stringer/error method into the "{<type>@<identity-hash>: <panic>}"
// form described by spec.md §7, rather than letting it escape or
// propagating fmt's own "%!v(PANIC=...)" text.
func safeString(arg any) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("{%s@%08x: %v}", typeName(arg), identityHash(arg), r)
		}
	}()
	switch v := arg.(type) {
	case nil:
		return "null"
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", arg)
	}
}

func identityHash(arg any) uint32 {
	h := fnv.New32a()
	fmt.Fprint(h, typeName(arg))
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		fmt.Fprintf(h, "%d", v.Pointer())
	default:
		fmt.Fprintf(h, "%v", arg)
	}
	return h.Sum32()
}

func toInt64(arg any) (int64, bool) {
	switch v := arg.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

func toUint64(arg any) (uint64, bool) {
	iv, ok := toInt64(arg)
	if !ok {
		return 0, false
	}
	if iv < 0 {
		return uint64(iv), true
	}
	return uint64(iv), true
}

func toFloat(arg any) (float64, bool) {
	switch v := arg.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		if iv, ok := toInt64(arg); ok {
			return float64(iv), true
		}
		return 0, false
	}
}

func toRune(arg any) (rune, bool) {
	switch v := arg.(type) {
	case rune:
		return v, true
	case byte:
		return rune(v), true
	case string:
		r := []rune(v)
		if len(r) == 1 {
			return r[0], true
		}
		return 0, false
	default:
		if iv, ok := toInt64(arg); ok {
			return rune(iv), true
		}
		return 0, false
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func isNegFloat(v float64) bool { return v < 0 }
