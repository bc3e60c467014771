package printf

// IndexKind distinguishes how a term's argument index was written in
// the template (spec.md §4.3.1).
type IndexKind int

const (
	// IndexImplicit means no index was written; the term consumes the
	// next argument in sequence.
	IndexImplicit IndexKind = iota
	// IndexExplicit means the term named its argument with "N$".
	IndexExplicit
	// IndexRelative means the term used "<" to reuse the previous
	// term's argument.
	IndexRelative
)

// Literal is a run of template text copied to the output verbatim
// (anything between/around '%' terms, with "%%" already collapsed to
// a single '%' literal segment by the parser).
type Literal struct {
	Text string
}

// Term is one parsed "%..." conversion. Special terms (%n, the bare
// line separator) carry Type == 'n' and no argument; %% is never
// represented as a Term, it is folded into the surrounding Literal.
type Term struct {
	Raw       string // the exact source text of this term, including '%'
	IndexKind IndexKind
	Index     int // 1-based explicit index; meaningless for implicit/relative
	Options   Options
	Type      byte // the conversion character, e.g. 'd', 's', 'f', 'b', 't', 'h'
	Upper     bool // true if Type was written upper-case (e.g. 'S', 'B', 'T', 'H')
}

// Token is either a Literal or a Term; exactly one of the two fields
// is non-nil.
type Token struct {
	Literal *Literal
	Term    *Term
}
