// Package formula builds spreadsheet formulas as expression trees and
// renders them to the text form stored in a workbook cell.
package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Expr is a node in a formula expression tree.
type Expr interface {
	write(b *strings.Builder)
	refs(visit func(r Ref, whole bool))
}

// Render returns the formula text without the leading "=".
func Render(e Expr) string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

// String returns the formula text as a user would type it, with "=".
func String(e Expr) string {
	return "=" + Render(e)
}

// Sheets lists the sheet names referenced by e, in first-seen order.
// References without a sheet (same-sheet references) are not listed.
func Sheets(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	e.refs(func(r Ref, _ bool) {
		if r.Sheet == "" || seen[r.Sheet] {
			return
		}
		seen[r.Sheet] = true
		names = append(names, r.Sheet)
	})
	return names
}

// SheetsInText lists the sheet names referenced by formula text read
// back from a workbook, in first-seen order. String literals are
// skipped.
func SheetsInText(text string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '"':
			for i++; i < len(runes); i++ {
				if runes[i] == '"' {
					if i+1 < len(runes) && runes[i+1] == '"' {
						i++
						continue
					}
					break
				}
			}
		case r == '\'':
			var name strings.Builder
			for i++; i < len(runes); i++ {
				if runes[i] == '\'' {
					if i+1 < len(runes) && runes[i+1] == '\'' {
						name.WriteRune('\'')
						i++
						continue
					}
					break
				}
				name.WriteRune(runes[i])
			}
			if i+1 < len(runes) && runes[i+1] == '!' {
				add(name.String())
			}
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			for i+1 < len(runes) && (runes[i+1] == '_' || unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])) {
				i++
			}
			if i+1 < len(runes) && runes[i+1] == '!' {
				add(string(runes[start : i+1]))
			}
		}
	}
	return names
}

// Validate reports references that point at row 0 or below, and
// ranges whose end row is above their start row.
func Validate(e Expr) error {
	var err error
	e.refs(func(r Ref, whole bool) {
		if err != nil {
			return
		}
		if r.Col == "" {
			err = fmt.Errorf("reference without column on sheet %q", r.Sheet)
			return
		}
		if !whole && r.Row < 1 {
			err = fmt.Errorf("reference %s points at row %d", Render(r), r.Row)
		}
	})
	if err != nil {
		return err
	}
	var inverted []string
	walkRanges(e, func(rg Range) {
		if rg.From.Row > 0 && rg.To.Row > 0 && rg.To.Row < rg.From.Row {
			inverted = append(inverted, Render(rg))
		}
	})
	if len(inverted) > 0 {
		return fmt.Errorf("inverted range %s", strings.Join(inverted, ", "))
	}
	return nil
}

func walkRanges(e Expr, fn func(Range)) {
	switch x := e.(type) {
	case Range:
		fn(x)
	case Call:
		for _, a := range x.Args {
			walkRanges(a, fn)
		}
	case Binary:
		walkRanges(x.L, fn)
		walkRanges(x.R, fn)
	case Group:
		walkRanges(x.X, fn)
	}
}

// Number is a numeric literal.
type Number float64

func (n Number) write(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(float64(n), 'f', -1, 64))
}

func (Number) refs(func(Ref, bool)) {}

// Text is a string literal.
type Text string

func (t Text) write(b *strings.Builder) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(string(t), `"`, `""`))
	b.WriteByte('"')
}

func (Text) refs(func(Ref, bool)) {}

// Ref is a single-cell reference, optionally on another sheet.
type Ref struct {
	Sheet  string
	Col    string
	Row    int
	AbsCol bool
	AbsRow bool
}

// Cell returns a relative same-sheet reference.
func Cell(col string, row int) Ref {
	return Ref{Col: col, Row: row}
}

// On returns r qualified with a sheet name.
func (r Ref) On(sheet string) Ref {
	r.Sheet = sheet
	return r
}

// FixRow returns r with an absolute row ($).
func (r Ref) FixRow() Ref {
	r.AbsRow = true
	return r
}

// FixCol returns r with an absolute column ($).
func (r Ref) FixCol() Ref {
	r.AbsCol = true
	return r
}

func (r Ref) write(b *strings.Builder) {
	writeSheet(b, r.Sheet)
	writeCoord(b, r)
}

func (r Ref) refs(visit func(Ref, bool)) { visit(r, false) }

func writeCoord(b *strings.Builder, r Ref) {
	if r.AbsCol {
		b.WriteByte('$')
	}
	b.WriteString(r.Col)
	if r.Row > 0 {
		if r.AbsRow {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(r.Row))
	}
}

func writeSheet(b *strings.Builder, sheet string) {
	if sheet == "" {
		return
	}
	b.WriteString(QuoteSheet(sheet))
	b.WriteByte('!')
}

// Range is a rectangular reference. The sheet of From qualifies the
// whole range; the sheet of To is ignored.
type Range struct {
	From Ref
	To   Ref
}

// Span returns the range from..to.
func Span(from, to Ref) Range {
	return Range{From: from, To: to}
}

// Column returns a whole-column range such as J:J.
func Column(col string) Range {
	return Range{From: Ref{Col: col}, To: Ref{Col: col}}
}

// On returns rg qualified with a sheet name.
func (rg Range) On(sheet string) Range {
	rg.From.Sheet = sheet
	return rg
}

func (rg Range) whole() bool {
	return rg.From.Row == 0 && rg.To.Row == 0
}

func (rg Range) write(b *strings.Builder) {
	writeSheet(b, rg.From.Sheet)
	writeCoord(b, rg.From)
	b.WriteByte(':')
	writeCoord(b, rg.To)
}

func (rg Range) refs(visit func(Ref, bool)) {
	whole := rg.whole()
	from, to := rg.From, rg.To
	to.Sheet = from.Sheet
	visit(from, whole)
	visit(to, whole)
}

// Call is a function application such as SUM(A1:A3).
type Call struct {
	Name string
	Args []Expr
}

func (c Call) write(b *strings.Builder) {
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		a.write(b)
	}
	b.WriteByte(')')
}

func (c Call) refs(visit func(Ref, bool)) {
	for _, a := range c.Args {
		a.refs(visit)
	}
}

// Binary is an infix operation. Operands are written as-is; wrap them
// in Group when precedence requires parentheses.
type Binary struct {
	Op string
	L  Expr
	R  Expr
}

func (x Binary) write(b *strings.Builder) {
	x.L.write(b)
	b.WriteString(x.Op)
	x.R.write(b)
}

func (x Binary) refs(visit func(Ref, bool)) {
	x.L.refs(visit)
	x.R.refs(visit)
}

// Group wraps an expression in parentheses.
type Group struct {
	X Expr
}

func (g Group) write(b *strings.Builder) {
	b.WriteByte('(')
	g.X.write(b)
	b.WriteByte(')')
}

func (g Group) refs(visit func(Ref, bool)) { g.X.refs(visit) }

// QuoteSheet quotes a sheet name when the spreadsheet grammar needs it:
// names starting with a digit or containing anything other than
// letters, digits and underscores.
func QuoteSheet(name string) string {
	if !needsQuote(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func needsQuote(name string) bool {
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return true
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func fold(op string, first Expr, rest []Expr) Expr {
	out := first
	for _, e := range rest {
		out = Binary{Op: op, L: out, R: e}
	}
	return out
}

// Add returns a+b+... .
func Add(a Expr, rest ...Expr) Expr { return fold("+", a, rest) }

// Sub returns a-b.
func Sub(a, b Expr) Expr { return Binary{Op: "-", L: a, R: b} }

// Mul returns a*b*... .
func Mul(a Expr, rest ...Expr) Expr { return fold("*", a, rest) }

// Div returns a/b.
func Div(a, b Expr) Expr { return Binary{Op: "/", L: a, R: b} }

// Concat returns a&b&... .
func Concat(a Expr, rest ...Expr) Expr { return fold("&", a, rest) }

// Eq returns a=b.
func Eq(a, b Expr) Expr { return Binary{Op: "=", L: a, R: b} }

// Sum returns SUM(args...).
func Sum(args ...Expr) Expr { return Call{Name: "SUM", Args: args} }

// Round returns ROUND(x,digits).
func Round(x Expr, digits int) Expr {
	return Call{Name: "ROUND", Args: []Expr{x, Number(digits)}}
}

// Index returns INDEX(rg,row).
func Index(rg Range, row Expr) Expr {
	return Call{Name: "INDEX", Args: []Expr{rg, row}}
}

// If returns IF(cond,then,otherwise).
func If(cond, then, otherwise Expr) Expr {
	return Call{Name: "IF", Args: []Expr{cond, then, otherwise}}
}
