package scanner

// TokenKind is the type of a Metal source token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	TokenIdent
	TokenNumber
	TokenString
	TokenComment      // "// ..." line comment, text without the slashes
	TokenPreprocessor // "#..." line, text without the hash

	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenAttrOpen     // [[
	TokenAttrClose    // ]]
	TokenLess         // <
	TokenGreater      // >
	TokenComma        // ,
	TokenSemicolon    // ;
	TokenEqual        // =
	TokenColonColon   // ::
	TokenOther        // any other punctuation; only matters inside skipped bodies
)

var tokenNames = [...]string{
	TokenEOF:          "end of file",
	TokenIdent:        "identifier",
	TokenNumber:       "number",
	TokenString:       "string",
	TokenComment:      "comment",
	TokenPreprocessor: "preprocessor directive",
	TokenLeftParen:    "'('",
	TokenRightParen:   "')'",
	TokenLeftBrace:    "'{'",
	TokenRightBrace:   "'}'",
	TokenLeftBracket:  "'['",
	TokenRightBracket: "']'",
	TokenAttrOpen:     "'[['",
	TokenAttrClose:    "']]'",
	TokenLess:         "'<'",
	TokenGreater:      "'>'",
	TokenComma:        "','",
	TokenSemicolon:    "';'",
	TokenEqual:        "'='",
	TokenColonColon:   "'::'",
	TokenOther:        "punctuation",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

// Token is a lexical token with its position in the source.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}
