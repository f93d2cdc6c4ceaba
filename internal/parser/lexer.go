package parser

import (
	"fmt"
	"strings"

	gitsherrors "github.com/satococoa/gitsh/internal/errors"
)

// TokenType identifies a lexical token
type TokenType int

const (
	WORD TokenType = iota
	VAR
	SPACE
	EOL
	SEMICOLON
	AND
	OR
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COMMA
	SUBSHELL_START
	SUBSHELL_END
	EOF
)

var tokenNames = map[TokenType]string{
	WORD:           "word",
	VAR:            "variable",
	SPACE:          "space",
	EOL:            "newline",
	SEMICOLON:      "';'",
	AND:            "'&&'",
	OR:             "'||'",
	LEFT_PAREN:     "'('",
	RIGHT_PAREN:    "')'",
	LEFT_BRACE:     "'{'",
	RIGHT_BRACE:    "'}'",
	COMMA:          "','",
	SUBSHELL_START: "'$('",
	SUBSHELL_END:   "')'",
	EOF:            "end of input",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token. Value holds the text of WORD tokens and the name
// of VAR tokens. Quoted marks a SUBSHELL_START inside double quotes.
type Token struct {
	Type   TokenType
	Value  string
	Pos    int
	Quoted bool
}

func (t Token) describe() string {
	switch t.Type {
	case WORD:
		return fmt.Sprintf("word '%s'", t.Value)
	case VAR:
		return fmt.Sprintf("variable '$%s'", t.Value)
	default:
		return t.Type.String()
	}
}

// frame is the nesting context of the lexer. The outermost frame is the
// whole input; every $( opens a new frame that ends at its matching ).
type frame struct {
	start      int
	braceDepth int
	braceStart int
	parenDepth int
	parenStart int

	inQuote     bool
	quoteStart  int
	quoteTokens int
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
	frames []*frame
}

// Lex splits input into tokens. Adjacent word text is merged into a single
// WORD token. Errors are *errors.ParseError; input that ends inside a quote,
// brace expansion, group or subshell yields an incomplete one.
func Lex(input string) ([]Token, error) {
	l := &lexer{input: input, frames: []*frame{{start: 0}}}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) frame() *frame {
	return l.frames[len(l.frames)-1]
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) emit(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Pos: pos})
}

func (l *lexer) emitWord(text string, pos int) {
	if n := len(l.tokens); n > 0 && l.tokens[n-1].Type == WORD {
		l.tokens[n-1].Value += text
		return
	}
	l.emit(WORD, text, pos)
}

func (l *lexer) lastType() (TokenType, bool) {
	if len(l.tokens) == 0 {
		return 0, false
	}
	return l.tokens[len(l.tokens)-1].Type, true
}

func (l *lexer) run() error {
	for l.pos < len(l.input) {
		var err error
		if l.frame().inQuote {
			err = l.lexQuoted()
		} else {
			err = l.lexUnquoted()
		}
		if err != nil {
			return err
		}
	}
	return l.finish()
}

// finish reports constructs left open at the end of input, innermost first
func (l *lexer) finish() error {
	f := l.frame()
	switch {
	case f.inQuote:
		return gitsherrors.UnterminatedInput("quoted string", f.quoteStart)
	case f.braceDepth > 0:
		return gitsherrors.UnterminatedInput("brace expansion", f.braceStart)
	case len(l.frames) > 1:
		return gitsherrors.UnterminatedInput("subshell", f.start)
	case f.parenDepth > 0:
		return gitsherrors.UnterminatedInput("parenthesis", f.parenStart)
	}

	l.emit(EOF, "", l.pos)
	return nil
}

func (l *lexer) lexUnquoted() error {
	f := l.frame()
	start := l.pos
	c := l.input[l.pos]

	switch {
	case c == ' ' || c == '\t' || c == '\r':
		if f.braceDepth > 0 {
			return &gitsherrors.ParseError{Message: "whitespace is not allowed in a brace expansion", Pos: start}
		}
		for l.pos < len(l.input) && strings.IndexByte(" \t\r", l.input[l.pos]) >= 0 {
			l.pos++
		}
		l.emit(SPACE, "", start)

	case c == '\n':
		l.pos++
		if f.braceDepth > 0 {
			// an open brace expansion continues on the next line
			return nil
		}
		l.emit(EOL, "", start)

	case c == '#' && l.atCommandBoundary():
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}

	case c == ';':
		l.pos++
		l.emit(SEMICOLON, "", start)

	case c == '&' && l.peek(1) == '&':
		l.pos += 2
		l.emit(AND, "", start)

	case c == '|' && l.peek(1) == '|':
		l.pos += 2
		l.emit(OR, "", start)

	case c == '(':
		l.pos++
		if f.parenDepth == 0 {
			f.parenStart = start
		}
		f.parenDepth++
		l.emit(LEFT_PAREN, "", start)

	case c == ')':
		l.pos++
		switch {
		case f.parenDepth > 0:
			f.parenDepth--
			l.emit(RIGHT_PAREN, "", start)
		case len(l.frames) > 1:
			if f.braceDepth > 0 {
				return gitsherrors.UnexpectedToken("')' inside a brace expansion", start)
			}
			l.frames = l.frames[:len(l.frames)-1]
			l.emit(SUBSHELL_END, "", start)
		default:
			l.emit(RIGHT_PAREN, "", start)
		}

	case c == '{':
		l.pos++
		if f.braceDepth == 0 {
			f.braceStart = start
		}
		f.braceDepth++
		l.emit(LEFT_BRACE, "", start)

	case c == '}':
		l.pos++
		if f.braceDepth > 0 {
			f.braceDepth--
		}
		l.emit(RIGHT_BRACE, "", start)

	case c == ',' && f.braceDepth > 0:
		l.pos++
		l.emit(COMMA, "", start)

	case c == '\'':
		end := strings.IndexByte(l.input[l.pos+1:], '\'')
		if end < 0 {
			return gitsherrors.UnterminatedInput("quoted string", start)
		}
		l.emitWord(l.input[l.pos+1:l.pos+1+end], start)
		l.pos += end + 2

	case c == '"':
		l.pos++
		f.inQuote = true
		f.quoteStart = start
		f.quoteTokens = len(l.tokens)

	case c == '\\':
		return l.lexEscape(start, "")

	case c == '$':
		return l.lexDollar(false)

	default:
		l.lexWord(f)
	}
	return nil
}

// atCommandBoundary reports whether a word would start here, which is where
// '#' begins a comment
func (l *lexer) atCommandBoundary() bool {
	if l.frame().braceDepth > 0 {
		return false
	}
	typ, ok := l.lastType()
	if !ok {
		return true
	}
	switch typ {
	case SPACE, EOL, SEMICOLON, AND, OR, LEFT_PAREN, RIGHT_PAREN, SUBSHELL_START:
		return true
	}
	return false
}

func (l *lexer) lexWord(f *frame) {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if strings.IndexByte(" \t\r\n;()\"'\\${}", c) >= 0 {
			break
		}
		if c == ',' && f.braceDepth > 0 {
			break
		}
		if (c == '&' || c == '|') && l.peek(1) == c {
			break
		}
		l.pos++
	}
	l.emitWord(l.input[start:l.pos], start)
}

// lexEscape handles a backslash at l.pos. Inside double quotes only the
// characters in special are escapable; other backslashes are kept.
func (l *lexer) lexEscape(start int, special string) error {
	next := l.peek(1)
	switch {
	case l.pos+1 >= len(l.input):
		return gitsherrors.UnterminatedInput("escape sequence", start)
	case next == '\n':
		l.pos += 2
	case special == "" || strings.IndexByte(special, next) >= 0:
		l.emitWord(string(next), start)
		l.pos += 2
	default:
		l.emitWord(`\`, start)
		l.pos++
	}
	return nil
}

func (l *lexer) lexQuoted() error {
	f := l.frame()
	start := l.pos

	switch l.input[l.pos] {
	case '"':
		l.pos++
		f.inQuote = false
		if len(l.tokens) == f.quoteTokens {
			l.emitWord("", f.quoteStart)
		}
		return nil
	case '\\':
		return l.lexEscape(start, "\\\"$")
	case '$':
		return l.lexDollar(true)
	}

	for l.pos < len(l.input) && strings.IndexByte("\"\\$", l.input[l.pos]) < 0 {
		l.pos++
	}
	l.emitWord(l.input[start:l.pos], start)
	return nil
}

// lexDollar handles '$' at l.pos: a subshell, a braced or bare variable, or a
// literal dollar sign
func (l *lexer) lexDollar(quoted bool) error {
	start := l.pos

	switch next := l.peek(1); {
	case next == '(':
		l.pos += 2
		l.tokens = append(l.tokens, Token{Type: SUBSHELL_START, Pos: start, Quoted: quoted})
		l.frames = append(l.frames, &frame{start: start})
		return nil

	case next == '{':
		end := strings.IndexByte(l.input[l.pos+2:], '}')
		if end < 0 {
			return gitsherrors.UnterminatedInput("variable reference", start)
		}
		name := l.input[l.pos+2 : l.pos+2+end]
		if !validVariableName(name) {
			return &gitsherrors.ParseError{Message: fmt.Sprintf("invalid variable name '%s'", name), Pos: start}
		}
		l.emit(VAR, name, start)
		l.pos += end + 3
		return nil

	case isNameStart(next):
		end := l.pos + 2
		for end < len(l.input) && isNameChar(l.input[end]) {
			end++
		}
		for l.input[end-1] == '.' || l.input[end-1] == '-' {
			end--
		}
		l.emit(VAR, l.input[l.pos+1:end], start)
		l.pos = end
		return nil
	}

	l.pos++
	l.emitWord("$", start)
	return nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '.' || c == '-'
}

func validVariableName(name string) bool {
	if name == "" || !isNameStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return false
		}
	}
	return true
}
