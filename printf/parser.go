package printf

import (
	"strings"

	"github.com/corelog/flogger/core"
)

// validConversions are the recognized type characters, keyed by their
// lower-case form. %n and %% are handled before this table is
// consulted (spec.md §4.3.3).
var validConversions = map[byte]bool{
	's': true, 'd': true, 'f': true, 'e': true, 'g': true,
	'x': true, 'o': true, 'b': true, 'c': true, 't': true, 'h': true,
}

// upperableConversions may be written upper-case to request an
// upper-cased rendering of the formatted value (spec.md §4.4, "upper
// case propagation via type character").
var upperableConversions = map[byte]bool{
	's': true, 'x': true, 'o': true, 'b': true, 'c': true, 't': true, 'h': true,
}

// Parse parses template into a sequence of literal and term tokens.
// Consecutive "%%" collapse into a single literal '%'; "%n" becomes a
// no-argument newline term. Parse never returns a partial token list
// alongside an error: on failure the returned slice is nil.
func Parse(template string) ([]Token, error) {
	var tokens []Token
	var lit strings.Builder
	flushLiteral := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Literal: &Literal{Text: lit.String()}})
			lit.Reset()
		}
	}

	i := 0
	haveAnyTerm := false
	for i < len(template) {
		if template[i] != '%' {
			lit.WriteByte(template[i])
			i++
			continue
		}

		start := i
		i++ // consume '%'
		if i >= len(template) {
			return nil, &core.ParseError{Message: "template must not end with a bare '%'", Start: start, End: i}
		}

		if template[i] == '%' {
			lit.WriteByte('%')
			i++
			continue
		}
		if template[i] == 'n' {
			flushLiteral()
			tokens = append(tokens, Token{Term: &Term{Raw: template[start : i+1], Type: 'n'}})
			i++
			continue
		}

		kind, index, consumed, err := parseIndexPrefix(template, i)
		if err != nil {
			return nil, err
		}
		i = consumed
		if kind == IndexRelative && !haveAnyTerm {
			return nil, &core.ParseError{Message: "'<' has no preceding argument to refer back to", Start: start, End: i}
		}

		opts, after, err := scan(template, i)
		if err != nil {
			return nil, err
		}
		i = after

		if i >= len(template) {
			return nil, &core.ParseError{Message: "unterminated conversion, missing type character", Start: start, End: i}
		}
		typeChar := template[i]
		lower := typeChar | 0x20
		upper := typeChar >= 'A' && typeChar <= 'Z'
		if !validConversions[lower] {
			return nil, &core.ParseError{Message: "unrecognized conversion '" + string(typeChar) + "'", Start: i, End: i + 1}
		}
		if upper && !upperableConversions[lower] {
			return nil, &core.ParseError{Message: "conversion '" + string(lower) + "' has no upper-case form", Start: i, End: i + 1}
		}
		i++

		flushLiteral()
		tokens = append(tokens, Token{Term: &Term{
			Raw:       template[start:i],
			IndexKind: kind,
			Index:     index,
			Options:   opts,
			Type:      lower,
			Upper:     upper,
		}})
		haveAnyTerm = true
	}
	flushLiteral()
	return tokens, nil
}

// parseIndexPrefix parses an optional "N$" explicit index or "<"
// relative-index marker at template[pos:], returning the resulting
// kind/index and the offset just past the consumed prefix. When
// neither form is present it returns IndexImplicit at the unchanged
// offset.
func parseIndexPrefix(template string, pos int) (IndexKind, int, int, error) {
	if pos < len(template) && template[pos] == '<' {
		return IndexRelative, 0, pos + 1, nil
	}
	if pos < len(template) && isDigit(template[pos]) {
		j := pos
		for j < len(template) && isDigit(template[j]) {
			j++
		}
		if j < len(template) && template[j] == '$' {
			digits := template[pos:j]
			if digits[0] == '0' {
				return 0, 0, 0, &core.ParseError{Message: "argument index must not have a leading zero", Start: pos, End: j}
			}
			n, err := parseBoundedInt(digits, 1, 999999)
			if err != nil {
				return 0, 0, 0, &core.ParseError{Message: "invalid argument index: " + err.Error(), Start: pos, End: j}
			}
			return IndexExplicit, n, j + 1, nil
		}
	}
	return IndexImplicit, 0, pos, nil
}
