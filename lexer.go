package bplus

import (
	"fmt"
	"unicode/utf8"
)

// Lexer scans B+ source text into tokens. It is a plain byte-cursor scanner;
// multi-byte identifiers (the Bengali Unicode block) are decoded on demand.
// Lexical failures never abort the scan: they surface as ILLEGAL tokens whose
// literal carries the message, and the parser reports them as diagnostics.
type Lexer struct {
	input        string
	position     int  // index of current byte
	readPosition int  // index of next byte to read
	ch           byte // current byte under examination (0 = EOF)
	line         int  // 1-based
	col          int  // 0-based byte column within line

	keywords         KeywordResolver
	preserveComments bool
}

// NewLexer creates a lexer over src using the built-in keyword table.
func NewLexer(src string) *Lexer {
	return NewLexerWithKeywords(src, NewKeywordTable())
}

// NewLexerWithKeywords creates a lexer with a caller-supplied keyword
// resolver (e.g. one extended by a language pack).
func NewLexerWithKeywords(src string, kw KeywordResolver) *Lexer {
	l := &Lexer{input: src, line: 1, col: -1, keywords: kw}
	l.readChar()
	return l
}

// PreserveComments switches the lexer to emit COMMENT_LINE / COMMENT_BLOCK
// tokens instead of discarding comments. Intended for tooling that wants to
// round-trip a commented program; the parser turns statement-position
// comment tokens into inert comment statements.
func (l *Lexer) PreserveComments() {
	l.preserveComments = true
}

// scanState is a full scanner checkpoint. The multi-word keyword lookahead
// snapshots one of these and restores it when the two-word candidate fails.
type scanState struct {
	position     int
	readPosition int
	ch           byte
	line         int
	col          int
}

func (l *Lexer) checkpoint() scanState {
	return scanState{l.position, l.readPosition, l.ch, l.line, l.col}
}

func (l *Lexer) restore(st scanState) {
	l.position = st.position
	l.readPosition = st.readPosition
	l.ch = st.ch
	l.line = st.line
	l.col = st.col
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = -1
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.col++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// peekString returns up to n bytes starting after the current byte.
func (l *Lexer) peekString(n int) string {
	start := l.position + 1
	if start >= len(l.input) {
		return ""
	}
	end := start + n
	if end > len(l.input) {
		end = len(l.input)
	}
	return l.input[start:end]
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAsciiLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// bengaliRuneLen returns the byte length of the rune at the cursor when it
// falls in the Bengali block (U+0980–U+09FF), else 0.
func (l *Lexer) bengaliRuneLen() int {
	if l.ch < utf8.RuneSelf || l.position >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	if r >= 0x0980 && r <= 0x09FF {
		return size
	}
	return 0
}

func (l *Lexer) atIdentStart() bool {
	return isAsciiLetter(l.ch) || l.bengaliRuneLen() > 0
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) newToken(tt TokenType, literal string, line, col int) Token {
	return Token{Type: tt, Literal: literal, Line: line, Col: col}
}

func (l *Lexer) illegal(line, col int, format string, args ...interface{}) Token {
	return Token{Type: ILLEGAL, Literal: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// NextToken scans and returns the next token. Call repeatedly until an EOF
// token is produced.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		line, col := l.line, l.col

		consumed, tok, emit := l.consumeComment()
		if emit {
			return tok
		}
		if consumed {
			continue
		}

		switch {
		case l.ch == 0:
			return l.newToken(EOF, "", line, col)

		case l.ch == '=':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(EQ, "==", line, col)
			}
			l.readChar()
			return l.newToken(ASSIGN, "=", line, col)

		case l.ch == '!':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(NOTEQ, "!=", line, col)
			}
			l.readChar()
			return l.newToken(BANG, "!", line, col)

		case l.ch == '<':
			switch l.peekChar() {
			case '=':
				l.readChar()
				l.readChar()
				return l.newToken(LTEQ, "<=", line, col)
			case '<':
				l.readChar()
				l.readChar()
				return l.newToken(SHL, "<<", line, col)
			}
			l.readChar()
			return l.newToken(LT, "<", line, col)

		case l.ch == '>':
			switch l.peekChar() {
			case '=':
				l.readChar()
				l.readChar()
				return l.newToken(GTEQ, ">=", line, col)
			case '>':
				l.readChar()
				l.readChar()
				return l.newToken(SHR, ">>", line, col)
			}
			l.readChar()
			return l.newToken(GT, ">", line, col)

		case l.ch == '&':
			if l.peekChar() == '&' {
				l.readChar()
				l.readChar()
				return l.newToken(EBONG, "&&", line, col)
			}
			l.readChar()
			return l.illegal(line, col, "unexpected character: '&'")

		case l.ch == '|':
			if l.peekChar() == '|' {
				l.readChar()
				l.readChar()
				return l.newToken(OTHOBA, "||", line, col)
			}
			l.readChar()
			return l.illegal(line, col, "unexpected character: '|'")

		case l.ch == '+':
			l.readChar()
			return l.newToken(PLUS, "+", line, col)
		case l.ch == '-':
			l.readChar()
			return l.newToken(MINUS, "-", line, col)
		case l.ch == '*':
			l.readChar()
			return l.newToken(ASTERISK, "*", line, col)
		case l.ch == '/':
			l.readChar()
			return l.newToken(SLASH, "/", line, col)
		case l.ch == '%':
			l.readChar()
			return l.newToken(PERCENT, "%", line, col)
		case l.ch == ';':
			l.readChar()
			return l.newToken(SEMICOLON, ";", line, col)
		case l.ch == ',':
			l.readChar()
			return l.newToken(COMMA, ",", line, col)
		case l.ch == '.':
			l.readChar()
			return l.newToken(FULLSTOP, ".", line, col)
		case l.ch == '(':
			l.readChar()
			return l.newToken(LPAREN, "(", line, col)
		case l.ch == ')':
			l.readChar()
			return l.newToken(RPAREN, ")", line, col)
		case l.ch == '{':
			l.readChar()
			return l.newToken(LBRACE, "{", line, col)
		case l.ch == '}':
			l.readChar()
			return l.newToken(RBRACE, "}", line, col)

		case l.ch == '"':
			return l.readString(line, col)
		case l.ch == '\'':
			return l.readCharLiteral(line, col)

		case isDigit(l.ch):
			return l.readNumber(line, col)

		case l.atIdentStart():
			return l.readIdentifierToken(line, col)

		default:
			ch := l.ch
			l.readChar()
			return l.illegal(line, col, "unexpected character: %q", rune(ch))
		}
	}
}

// Scan tokenizes the entire source and returns all tokens, EOF included.
func (l *Lexer) Scan() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// --- comments ---

// consumeComment handles one comment if the cursor sits on a comment opener.
// consumed reports that a comment was taken; emit carries a token to return
// to the caller: an ILLEGAL token for an unterminated block, or a COMMENT
// token when the lexer preserves comments. Recognized styles:
//
//	line:  // ...    # ...    -- ...
//	block: /* */   {- -}   (* *)   =begin =end   """ """   ''' '''
func (l *Lexer) consumeComment() (consumed bool, tok Token, emit bool) {
	line, col := l.line, l.col

	switch {
	case l.ch == '/' && l.peekChar() == '/':
		l.readChar()
		l.readChar()
		return l.lineComment(line, col)
	case l.ch == '#':
		l.readChar()
		return l.lineComment(line, col)
	case l.ch == '-' && l.peekChar() == '-':
		l.readChar()
		l.readChar()
		return l.lineComment(line, col)

	case l.ch == '/' && l.peekChar() == '*':
		l.readChar()
		l.readChar()
		return l.blockComment("/*", "*/", line, col)
	case l.ch == '{' && l.peekChar() == '-':
		l.readChar()
		l.readChar()
		return l.blockComment("{-", "-}", line, col)
	case l.ch == '(' && l.peekChar() == '*':
		l.readChar()
		l.readChar()
		return l.blockComment("(*", "*)", line, col)
	case l.ch == '=' && l.peekString(5) == "begin":
		for i := 0; i < 6; i++ {
			l.readChar()
		}
		return l.blockComment("=begin", "=end", line, col)
	case l.ch == '"' && l.peekString(2) == `""`:
		l.readChar()
		l.readChar()
		l.readChar()
		return l.blockComment(`"""`, `"""`, line, col)
	case l.ch == '\'' && l.peekString(2) == "''":
		l.readChar()
		l.readChar()
		l.readChar()
		return l.blockComment("'''", "'''", line, col)
	}
	return false, Token{}, false
}

func (l *Lexer) lineComment(line, col int) (bool, Token, bool) {
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	if l.preserveComments {
		return true, l.newToken(COMMENT_LINE, l.input[start:l.position], line, col), true
	}
	return true, Token{}, false
}

// blockComment consumes input through the end delimiter. EOF before the
// delimiter yields an ILLEGAL token at the comment's opening position.
func (l *Lexer) blockComment(start, end string, line, col int) (bool, Token, bool) {
	text, ok := l.scanBlockComment(end)
	if !ok {
		return false, l.illegal(line, col, "unterminated multi-line comment starting with %s", start), true
	}
	if l.preserveComments {
		return true, l.newToken(COMMENT_BLOCK, text, line, col), true
	}
	return true, Token{}, false
}

// scanBlockComment reads up to and through end, returning the comment body.
// A byte that breaks a partial delimiter match is re-tested as a fresh first
// delimiter byte, so "**/" still closes a "/*" comment.
func (l *Lexer) scanBlockComment(end string) (string, bool) {
	var out []byte
	matched := 0
	for {
		if l.ch == 0 {
			return "", false
		}
		switch {
		case l.ch == end[matched]:
			matched++
			if matched == len(end) {
				l.readChar()
				return string(out[:len(out)-(len(end)-1)]), true
			}
		case l.ch == end[0]:
			matched = 1
		default:
			matched = 0
		}
		out = append(out, l.ch)
		l.readChar()
	}
}

// --- literals ---

// readString scans a double-quoted string with backslash escapes. Unknown
// escapes pass the escaped character through unchanged.
func (l *Lexer) readString(line, col int) Token {
	l.readChar() // opening quote
	var out []byte
	for {
		switch l.ch {
		case 0:
			return l.illegal(line, col, "unterminated string literal")
		case '"':
			l.readChar()
			return l.newToken(STRING, string(out), line, col)
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return l.illegal(line, col, "unterminated string literal")
			}
			out = append(out, decodeEscape(l.ch))
			l.readChar()
		default:
			out = append(out, l.ch)
			l.readChar()
		}
	}
}

// readCharLiteral scans a single-quoted character with the same escapes as
// strings. Exactly one character is allowed between the quotes.
func (l *Lexer) readCharLiteral(line, col int) Token {
	l.readChar() // opening quote
	if l.ch == 0 {
		return l.illegal(line, col, "unterminated character literal")
	}
	var c byte
	if l.ch == '\\' {
		l.readChar()
		if l.ch == 0 {
			return l.illegal(line, col, "unterminated character literal")
		}
		c = decodeEscape(l.ch)
	} else {
		c = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return l.illegal(line, col, "unterminated character literal")
	}
	l.readChar()
	return l.newToken(CHAR, string(c), line, col)
}

func decodeEscape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

// readNumber scans digits plus at most one of: a decimal point (float), an
// exponent with optional sign (double), an imaginary suffix, or a precision
// suffix. The flags are one-shot and mutually exclusive; the first suffix to
// match wins. Plain digit runs stay INT, everything else becomes FLOAT.
func (l *Lexer) readNumber(line, col int) Token {
	start := l.position
	sawDot, sawExp, sawImag, sawPrec := false, false, false, false

	for isDigit(l.ch) {
		l.readChar()
	}

	for {
		switch {
		case l.ch == '.' && !sawDot && !sawExp && !sawImag && !sawPrec && isDigit(l.peekChar()):
			sawDot = true
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		case (l.ch == 'e' || l.ch == 'E') && !sawExp && !sawImag && !sawPrec &&
			(isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-'):
			sawExp = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		case l.ch == 'i' && !sawImag && !sawPrec:
			sawImag = true
			l.readChar()
		case l.ch == 'f' && !sawPrec && !sawImag:
			sawPrec = true
			l.readChar()
		default:
			literal := l.input[start:l.position]
			if sawDot || sawExp || sawImag || sawPrec {
				return l.newToken(FLOAT, literal, line, col)
			}
			return l.newToken(INT, literal, line, col)
		}
		if sawImag || sawPrec {
			literal := l.input[start:l.position]
			return l.newToken(FLOAT, literal, line, col)
		}
	}
}

// --- identifiers & keywords ---

func (l *Lexer) readIdentifier() string {
	start := l.position
	for {
		if isAsciiLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
			continue
		}
		if n := l.bengaliRuneLen(); n > 0 {
			for i := 0; i < n; i++ {
				l.readChar()
			}
			continue
		}
		break
	}
	return l.input[start:l.position]
}

// readIdentifierToken scans one word, then peeks across whitespace for a
// second word to form a two-word keyword candidate. If "first second"
// resolves to a keyword the pair is consumed as one token; otherwise the
// scanner rewinds to just after the first word and the first word stands
// alone.
func (l *Lexer) readIdentifierToken(line, col int) Token {
	first := l.readIdentifier()

	save := l.checkpoint()
	l.skipWhitespace()
	if l.atIdentStart() {
		second := l.readIdentifier()
		candidate := first + " " + second
		if tt := l.keywords.LookupIdent(candidate); tt != IDENT {
			return l.newToken(tt, candidate, line, col)
		}
	}
	l.restore(save)

	tt := l.keywords.LookupIdent(first)
	return l.newToken(tt, first, line, col)
}
