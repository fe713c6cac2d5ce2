package program

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/potassco/asperion/pkg/asp/symbol"
)

// ParseError reports a malformed program statement, located by file and
// line (spec §7 ParseError).
type ParseError struct {
	Loc Location
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Loc.File, e.Loc.BeginLine, e.Msg)
}

// Parse parses program source text into a Program. file is used only to
// label Location.File ("" for in-memory strings passed to process()
// without process_files()).
func Parse(text string, file string) (*Program, error) {
	raws := splitStatements(text)
	p := &Program{}
	for _, r := range raws {
		if strings.TrimSpace(r.text) == "" {
			continue
		}
		stmt, err := parseStatement(r.text, Location{File: file, BeginLine: r.beginLine, EndLine: r.endLine})
		if err != nil {
			return nil, err
		}
		p.Statements = append(p.Statements, stmt)
	}
	return p, nil
}

// ParseFiles parses and concatenates multiple source files, in order,
// each statement's Location.File set to its origin path.
func ParseFiles(paths []string) (*Program, error) {
	out := &Program{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		p, err := Parse(string(data), path)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, p.Statements...)
	}
	return out, nil
}

type rawStmt struct {
	text                 string
	beginLine, endLine   int
}

// splitStatements breaks source text into top-level "...  ." statements,
// tracking line numbers and skipping '.' inside quoted strings, parens,
// or range ".." tokens.
func splitStatements(text string) []rawStmt {
	var out []rawStmt
	line := 1
	stmtStartLine := 1
	started := false
	depth := 0
	inString := false
	var b strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\n' {
			line++
		}
		if inString {
			b.WriteRune(c)
			if c == '\\' && i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
				if runes[i] == '\n' {
					line++
				}
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		if !started && c != '%' && !unicode.IsSpace(c) {
			stmtStartLine = line
			started = true
		}
		switch c {
		case '"':
			inString = true
			b.WriteRune(c)
		case '%':
			// line comment: consume through end of line
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				i-- // let the loop's i++ re-consume the newline accounting
			}
		case '(', '{':
			depth++
			b.WriteRune(c)
		case ')', '}':
			depth--
			b.WriteRune(c)
		case '.':
			if depth == 0 && (i+1 >= len(runes) || runes[i+1] != '.') && (i == 0 || runes[i-1] != '.') {
				out = append(out, rawStmt{text: b.String(), beginLine: stmtStartLine, endLine: line})
				b.Reset()
				started = false
				continue
			}
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	if strings.TrimSpace(b.String()) != "" {
		out = append(out, rawStmt{text: b.String(), beginLine: stmtStartLine, endLine: line})
	}
	return out
}

func parseStatement(raw string, loc Location) (Stmt, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "%") || s == "" {
		return Stmt{Kind: KindOther, Loc: loc, Raw: s}, nil
	}
	if strings.HasPrefix(s, "#const") {
		return parseConstDef(s, loc)
	}
	if strings.HasPrefix(s, "#minimize") || strings.HasPrefix(s, "#maximize") {
		return Stmt{Kind: KindMinimize, Loc: loc, Raw: s}, nil
	}
	if strings.HasPrefix(s, "#") {
		return Stmt{Kind: KindOther, Loc: loc, Raw: s}, nil
	}

	if strings.HasPrefix(s, ":-") {
		body, err := parseBody(strings.TrimSpace(s[2:]), loc)
		if err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: KindConstraint, Loc: loc, Body: body}, nil
	}

	if strings.HasPrefix(s, "{") {
		close := matchingBrace(s)
		if close < 0 {
			return Stmt{}, &ParseError{Loc: loc, Msg: "unbalanced '{'"}
		}
		headText := strings.TrimSpace(s[1:close])
		head, err := symbol.ParsePattern(headText)
		if err != nil {
			return Stmt{}, &ParseError{Loc: loc, Msg: err.Error()}
		}
		rest := strings.TrimSpace(s[close+1:])
		if rest == "" {
			return Stmt{Kind: KindChoiceFact, Loc: loc, Head: &head}, nil
		}
		if !strings.HasPrefix(rest, ":-") {
			return Stmt{}, &ParseError{Loc: loc, Msg: "expected ':-' after choice head"}
		}
		body, err := parseBody(strings.TrimSpace(rest[2:]), loc)
		if err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: KindChoiceRule, Loc: loc, Head: &head, Body: body}, nil
	}

	// head [:- body]
	split := findTopLevelArrow(s)
	if split < 0 {
		head, err := symbol.ParseGround(s)
		if err != nil {
			return Stmt{}, &ParseError{Loc: loc, Msg: err.Error()}
		}
		return Stmt{Kind: KindFact, Loc: loc, Head: &head}, nil
	}
	headText := strings.TrimSpace(s[:split])
	head, err := symbol.ParsePattern(headText)
	if err != nil {
		return Stmt{}, &ParseError{Loc: loc, Msg: err.Error()}
	}
	body, err := parseBody(strings.TrimSpace(s[split+2:]), loc)
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: KindRule, Loc: loc, Head: &head, Body: body}, nil
}

func parseConstDef(s string, loc Location) (Stmt, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(s, "#const"))
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return Stmt{}, &ParseError{Loc: loc, Msg: "malformed #const"}
	}
	name := strings.TrimSpace(rest[:eq])
	value, err := symbol.ParseGround(strings.TrimSpace(rest[eq+1:]))
	if err != nil {
		return Stmt{}, &ParseError{Loc: loc, Msg: err.Error()}
	}
	return Stmt{Kind: KindConstDef, Loc: loc, ConstName: name, ConstValue: value}, nil
}

func parseBody(s string, loc Location) ([]Lit, error) {
	if s == "" {
		return nil, nil
	}
	parts := splitTopLevelComma(s)
	lits := make([]Lit, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		naf := false
		if strings.HasPrefix(part, "not ") {
			naf = true
			part = strings.TrimSpace(part[4:])
		}
		atom, err := symbol.ParsePattern(part)
		if err != nil {
			return nil, &ParseError{Loc: loc, Msg: err.Error()}
		}
		lits = append(lits, Lit{Naf: naf, Atom: atom})
	}
	return lits, nil
}

func splitTopLevelComma(s string) []string {
	var out []string
	depth := 0
	inString := false
	start := 0
	runes := []rune(s)
	for i, c := range runes {
		if inString {
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, string(runes[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, string(runes[start:]))
	return out
}

func matchingBrace(s string) int {
	depth := 0
	for i, c := range s {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findTopLevelArrow returns the index of a top-level ":-" in s, or -1.
func findTopLevelArrow(s string) int {
	depth := 0
	inString := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inString {
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		case ':':
			if depth == 0 && i+1 < len(runes) && runes[i+1] == '-' {
				return i
			}
		}
	}
	return -1
}
