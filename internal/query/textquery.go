package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// TextOp is the operator of a TextNode
type TextOp int

const (
	TextTerm TextOp = iota
	TextAnd
	TextOr
	TextNot
	TextPhrase
)

// TextNode is a parsed full-text expression
type TextNode struct {
	Op       TextOp
	Term     string // lowercased operand text, TextTerm only
	Prefix   bool   // operand carried :*
	Distance int    // TextPhrase only; <-> is 1
	Children []*TextNode
}

func (n *TextNode) String() string {
	switch n.Op {
	case TextTerm:
		if n.Prefix {
			return n.Term + ":*"
		}
		return n.Term
	case TextNot:
		return "!" + n.Children[0].String()
	case TextAnd:
		return "(" + n.Children[0].String() + " & " + n.Children[1].String() + ")"
	case TextOr:
		return "(" + n.Children[0].String() + " | " + n.Children[1].String() + ")"
	case TextPhrase:
		op := "<->"
		if n.Distance != 1 {
			op = "<" + strconv.Itoa(n.Distance) + ">"
		}
		return "(" + n.Children[0].String() + " " + op + " " + n.Children[1].String() + ")"
	}
	return ""
}

type textTokenKind int

const (
	ttEOF textTokenKind = iota
	ttOperand
	ttAnd
	ttOr
	ttNot
	ttPhrase
	ttOpen
	ttClose
)

type textToken struct {
	kind     textTokenKind
	text     string
	prefix   bool
	distance int
	pos      int
}

// ParseTextQuery parses a tsquery expression (& | ! <-> <N> parentheses,
// operands with an optional :* suffix). Precedence from tightest: !, <->, &, |.
// Errors wrap domain.ErrInvalidQuery.
func ParseTextQuery(expr string) (*TextNode, error) {
	tokens, err := lexTextQuery(expr)
	if err != nil {
		return nil, err
	}
	p := &textParser{tokens: tokens}
	if p.peek().kind == ttEOF {
		return nil, fmt.Errorf("%w: empty expression", domain.ErrInvalidQuery)
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != ttEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", domain.ErrInvalidQuery, t.text, t.pos)
	}
	return node, nil
}

// ValidateTextQuery reports whether q is a well-formed expression
func ValidateTextQuery(q domain.TextQuery) error {
	_, err := ParseTextQuery(q.Expr)
	return err
}

func lexTextQuery(expr string) ([]textToken, error) {
	var tokens []textToken
	r := []rune(expr)
	for i := 0; i < len(r); {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, textToken{kind: ttOpen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, textToken{kind: ttClose, text: ")", pos: i})
			i++
		case c == '&':
			tokens = append(tokens, textToken{kind: ttAnd, text: "&", pos: i})
			i++
		case c == '|':
			tokens = append(tokens, textToken{kind: ttOr, text: "|", pos: i})
			i++
		case c == '!':
			tokens = append(tokens, textToken{kind: ttNot, text: "!", pos: i})
			i++
		case c == '<':
			end := i + 1
			for end < len(r) && r[end] != '>' {
				end++
			}
			if end >= len(r) {
				return nil, fmt.Errorf("%w: unterminated phrase operator at offset %d", domain.ErrInvalidQuery, i)
			}
			inner := string(r[i+1 : end])
			dist := 1
			if inner != "-" {
				n, err := strconv.Atoi(inner)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("%w: bad phrase distance %q", domain.ErrInvalidQuery, inner)
				}
				dist = n
			}
			tokens = append(tokens, textToken{kind: ttPhrase, text: string(r[i : end+1]), distance: dist, pos: i})
			i = end + 1
		default:
			start := i
			var text string
			if c == '\'' {
				end := i + 1
				for end < len(r) && r[end] != '\'' {
					end++
				}
				if end >= len(r) {
					return nil, fmt.Errorf("%w: unterminated quote at offset %d", domain.ErrInvalidQuery, i)
				}
				text = string(r[i+1 : end])
				i = end + 1
			} else {
				for i < len(r) && !isTextQuerySpecial(r[i]) && !unicode.IsSpace(r[i]) && r[i] != ':' {
					i++
				}
				text = string(r[start:i])
			}
			prefix := false
			if i < len(r) && r[i] == ':' {
				i++
				for i < len(r) && strings.ContainsRune("*ABCDabcd", r[i]) {
					if r[i] == '*' {
						prefix = true
					}
					i++
				}
			}
			if text == "" {
				return nil, fmt.Errorf("%w: empty operand at offset %d", domain.ErrInvalidQuery, start)
			}
			tokens = append(tokens, textToken{kind: ttOperand, text: strings.ToLower(text), prefix: prefix, pos: start})
		}
	}
	return tokens, nil
}

func isTextQuerySpecial(c rune) bool {
	switch c {
	case '(', ')', '&', '|', '!', '<':
		return true
	}
	return false
}

type textParser struct {
	tokens []textToken
	pos    int
}

func (p *textParser) peek() textToken {
	if p.pos >= len(p.tokens) {
		return textToken{kind: ttEOF, pos: -1}
	}
	return p.tokens[p.pos]
}

func (p *textParser) next() textToken {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *textParser) parseOr() (*TextNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == ttOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &TextNode{Op: TextOr, Children: []*TextNode{left, right}}
	}
	return left, nil
}

func (p *textParser) parseAnd() (*TextNode, error) {
	left, err := p.parsePhrase()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == ttAnd {
		p.next()
		right, err := p.parsePhrase()
		if err != nil {
			return nil, err
		}
		left = &TextNode{Op: TextAnd, Children: []*TextNode{left, right}}
	}
	return left, nil
}

func (p *textParser) parsePhrase() (*TextNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == ttPhrase {
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &TextNode{Op: TextPhrase, Distance: op.distance, Children: []*TextNode{left, right}}
	}
	return left, nil
}

func (p *textParser) parseUnary() (*TextNode, error) {
	t := p.next()
	switch t.kind {
	case ttNot:
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &TextNode{Op: TextNot, Children: []*TextNode{child}}, nil
	case ttOpen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != ttClose {
			return nil, fmt.Errorf("%w: missing closing parenthesis", domain.ErrInvalidQuery)
		}
		return inner, nil
	case ttOperand:
		return &TextNode{Op: TextTerm, Term: t.text, Prefix: t.prefix}, nil
	case ttEOF:
		return nil, fmt.Errorf("%w: expression ends with an operator", domain.ErrInvalidQuery)
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", domain.ErrInvalidQuery, t.text, t.pos)
}

// Lexemes splits text the way the "simple" text-search configuration does for
// plain words: runs of letters and digits, lowercased, stopwords kept
func Lexemes(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Matches evaluates the expression against a document's lexemes
func (n *TextNode) Matches(lexemes []string) bool {
	switch n.Op {
	case TextAnd:
		return n.Children[0].Matches(lexemes) && n.Children[1].Matches(lexemes)
	case TextOr:
		return n.Children[0].Matches(lexemes) || n.Children[1].Matches(lexemes)
	case TextNot:
		return !n.Children[0].Matches(lexemes)
	}
	return len(n.positions(lexemes)) > 0
}

// positions returns the lexeme indexes at which a match ends
func (n *TextNode) positions(lexemes []string) []int {
	switch n.Op {
	case TextTerm:
		return termPositions(n, lexemes)
	case TextPhrase:
		left := n.Children[0].positions(lexemes)
		right := n.Children[1].positions(lexemes)
		ends := make(map[int]bool, len(left))
		for _, p := range left {
			ends[p] = true
		}
		var out []int
		for _, p := range right {
			if ends[p-n.Distance] {
				out = append(out, p)
			}
		}
		return out
	case TextOr:
		return append(n.Children[0].positions(lexemes), n.Children[1].positions(lexemes)...)
	case TextAnd:
		left := n.Children[0].positions(lexemes)
		right := n.Children[1].positions(lexemes)
		if len(left) == 0 || len(right) == 0 {
			return nil
		}
		return append(left, right...)
	}
	return nil
}

// termPositions matches an operand. Operands holding several words
// (e.g. "zea-mays") must match consecutively; only the last word takes the prefix.
func termPositions(n *TextNode, lexemes []string) []int {
	words := Lexemes(n.Term)
	if len(words) == 0 {
		return nil
	}
	var out []int
	for i := 0; i+len(words) <= len(lexemes); i++ {
		ok := true
		for j, w := range words {
			lx := lexemes[i+j]
			last := j == len(words)-1
			if last && n.Prefix {
				ok = strings.HasPrefix(lx, w)
			} else {
				ok = lx == w
			}
			if !ok {
				break
			}
		}
		if ok {
			out = append(out, i+len(words)-1)
		}
	}
	return out
}
