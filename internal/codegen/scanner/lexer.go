package scanner

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes Metal Shading Language source.
//
// It only distinguishes what the declaration parser needs: identifiers,
// numbers, bracketing punctuation, "[[" / "]]" attribute delimiters, line
// comments (directive carriers) and preprocessor lines. Everything else is
// TokenOther.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	estTokens := len(source) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source, terminated by TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
	})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	line, col := l.line, l.column
	r := l.advance()

	switch r {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		if l.match('[') {
			l.addToken(TokenAttrOpen)
		} else {
			l.addToken(TokenLeftBracket)
		}
	case ']':
		if l.match(']') {
			l.addToken(TokenAttrClose)
		} else {
			l.addToken(TokenRightBracket)
		}
	case '<':
		l.addToken(TokenLess)
	case '>':
		l.addToken(TokenGreater)
	case ',':
		l.addToken(TokenComma)
	case ';':
		l.addToken(TokenSemicolon)
	case '=':
		if l.match('=') {
			l.addToken(TokenOther)
		} else {
			l.addToken(TokenEqual)
		}
	case ':':
		if l.match(':') {
			l.addToken(TokenColonColon)
		} else {
			l.addToken(TokenOther)
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
			l.tokens = append(l.tokens, Token{
				Kind:   TokenComment,
				Lexeme: l.source[l.start+2 : l.pos],
				Line:   line,
				Column: col,
			})
		} else if l.match('*') {
			if !l.blockComment() {
				return &ParseError{Line: line, Column: col, Message: "unterminated block comment"}
			}
		} else {
			l.addToken(TokenOther)
		}
	case '#':
		l.preprocessor(line, col)
	case '"', '\'':
		if !l.quoted(r) {
			return &ParseError{Line: line, Column: col, Message: "unterminated literal"}
		}
		l.addToken(TokenString)

	case ' ', '\r', '\t', '\f', '\v':
	case '\n':
		l.line++
		l.column = 1

	default:
		switch {
		case isDigit(r) || (r == '.' && isDigit(l.peek())):
			l.number()
		case isAlpha(r) || r == '_':
			l.identifier()
		default:
			l.addToken(TokenOther)
		}
	}
	return nil
}

func (l *Lexer) blockComment() bool {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return true
		}
		if l.advance() == '\n' {
			l.line++
			l.column = 1
		}
	}
	return false
}

// preprocessor consumes a "#..." line including backslash continuations.
func (l *Lexer) preprocessor(line, col int) {
	for !l.isAtEnd() {
		r := l.peek()
		if r == '\\' && l.peekNext() == '\n' {
			l.advance()
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		if r == '\n' {
			break
		}
		l.advance()
	}
	l.tokens = append(l.tokens, Token{
		Kind:   TokenPreprocessor,
		Lexeme: l.source[l.start+1 : l.pos],
		Line:   line,
		Column: col,
	})
}

func (l *Lexer) quoted(quote rune) bool {
	for !l.isAtEnd() {
		r := l.advance()
		switch r {
		case '\\':
			if !l.isAtEnd() {
				l.advance()
			}
		case '\n':
			return false
		case quote:
			return true
		}
	}
	return false
}

func (l *Lexer) number() {
	for isAlphaNumeric(l.peek()) || l.peek() == '.' || l.peek() == '_' {
		r := l.advance()
		// exponent sign: 1e-3, 0x1p+4
		if (r == 'e' || r == 'E' || r == 'p' || r == 'P') && (l.peek() == '+' || l.peek() == '-') {
			l.advance()
		}
	}
	l.addToken(TokenNumber)
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	l.addToken(TokenIdent)
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.line,
		Column: l.column - (l.pos - l.start),
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
