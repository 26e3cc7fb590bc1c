package bplus

import "strings"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Identifiers & literals
	IDENT
	INT
	FLOAT
	STRING
	CHAR
	HA // true literal
	NA // false literal

	// Operators
	ASSIGN   // "="
	PLUS     // "+"
	MINUS    // "-"
	ASTERISK // "*"
	SLASH    // "/"
	PERCENT  // "%"
	BANG     // "!"
	LT       // "<"
	GT       // ">"
	LTEQ     // "<="
	GTEQ     // ">="
	EQ       // "=="
	NOTEQ    // "!="
	SHL      // "<<"
	SHR      // ">>"
	EBONG    // logical and: "ebong" / "&&"
	OTHOBA   // logical or: "othoba" / "||"

	// Delimiters
	COMMA
	SEMICOLON
	FULLSTOP
	LPAREN
	RPAREN
	LBRACE
	RBRACE

	// Keywords
	LET      // dhoro
	CONST    // dhrubok
	FUNCTION // kaj
	IF       // jodi
	HOY      // hoy (optional connective after a condition)
	THEN     // tahole
	ELSE     // nahoy
	RETURN   // ferot
	PRINT    // dekhao
	INPUT    // input nao
	WHILE    // jotokhon
	FOR      // jonno
	BREAK    // thamo
	CONTINUE // choluk

	// Reserved for future use
	MODULE
	TRY
	CATCH
	ASYNC

	// Comment tokens, emitted only when the lexer preserves comments
	COMMENT_LINE
	COMMENT_BLOCK
)

var tokenNames = map[TokenType]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	IDENT:     "IDENT",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	CHAR:      "CHAR",
	HA:        "HA",
	NA:        "NA",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	PERCENT:   "%",
	BANG:      "!",
	LT:        "<",
	GT:        ">",
	LTEQ:      "<=",
	GTEQ:      ">=",
	EQ:        "==",
	NOTEQ:     "!=",
	SHL:       "<<",
	SHR:       ">>",
	EBONG:     "EBONG",
	OTHOBA:    "OTHOBA",
	COMMA:     ",",
	SEMICOLON: ";",
	FULLSTOP:  ".",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LET:       "DHORO",
	CONST:     "DHRUBOK",
	FUNCTION:  "KAJ",
	IF:        "JODI",
	HOY:       "HOY",
	THEN:      "TAHOLE",
	ELSE:      "NAHOY",
	RETURN:    "FEROT",
	PRINT:     "DEKHAO",
	INPUT:     "INPUT",
	WHILE:     "JOTOKHON",
	FOR:       "JONNO",
	BREAK:     "THAMO",
	CONTINUE:  "CHOLUK",
	MODULE:    "MODULE",
	TRY:       "TRY",
	CATCH:     "CATCH",
	ASYNC:     "ASYNC",

	COMMENT_LINE:  "COMMENT_LINE",
	COMMENT_BLOCK: "COMMENT_BLOCK",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a lexical token with its literal text and source position.
// Line is 1-based, Col is a 0-based byte column.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

// KeywordResolver maps identifier-like text to a token type. Implementations
// own the normalization contract: candidates are lowercased and internal
// whitespace runs are collapsed to single spaces before lookup. Text that
// resolves to nothing is an ordinary identifier (IDENT).
type KeywordResolver interface {
	LookupIdent(text string) TokenType
}

// KeywordTable is the default KeywordResolver: a spelling→token map over the
// built-in Banglish keywords, optionally extended with language-pack synonyms.
type KeywordTable struct {
	words map[string]TokenType
}

// defaultKeywords holds the built-in spellings, multi-word entries included.
// Keys are pre-normalized.
var defaultKeywords = map[string]TokenType{
	"dhoro":       LET,
	"let":         LET,
	"dhore rakho": LET,
	"dhrubok":     CONST,
	"const":       CONST,
	"kaj":         FUNCTION,
	"fn":          FUNCTION,
	"function":    FUNCTION,
	"jodi":        IF,
	"if":          IF,
	"hoy":         HOY,
	"tahole":      THEN,
	"then":        THEN,
	"nahoy":       ELSE,
	"na hoy":      ELSE,
	"else":        ELSE,
	"ferot":       RETURN,
	"ferot dao":   RETURN,
	"return":      RETURN,
	"dekhao":      PRINT,
	"print":       PRINT,
	"input":       INPUT,
	"input nao":   INPUT,
	"jotokhon":    WHILE,
	"while":       WHILE,
	"jonno":       FOR,
	"for":         FOR,
	"thamo":       BREAK,
	"break":       BREAK,
	"choluk":      CONTINUE,
	"continue":    CONTINUE,
	"ebong":       EBONG,
	"and":         EBONG,
	"othoba":      OTHOBA,
	"ba":          OTHOBA,
	"or":          OTHOBA,
	"ha":          HA,
	"true":        HA,
	"na":          NA,
	"false":       NA,
	"module":      MODULE,
	"try":         TRY,
	"catch":       CATCH,
	"async":       ASYNC,
}

// NewKeywordTable returns a resolver over the built-in keyword spellings.
func NewKeywordTable() *KeywordTable {
	words := make(map[string]TokenType, len(defaultKeywords))
	for k, v := range defaultKeywords {
		words[k] = v
	}
	return &KeywordTable{words: words}
}

// normalizeKeyword lowercases text and collapses internal whitespace runs.
func normalizeKeyword(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// LookupIdent resolves text to its keyword token type, or IDENT if unknown.
func (kt *KeywordTable) LookupIdent(text string) TokenType {
	if tt, ok := kt.words[normalizeKeyword(text)]; ok {
		return tt
	}
	return IDENT
}

// AddSynonym registers an extra spelling for a canonical keyword spelling.
// The canonical side must already resolve to a keyword; unknown canonicals
// are ignored so a malformed language pack cannot poison the table.
func (kt *KeywordTable) AddSynonym(spelling, canonical string) {
	tt, ok := kt.words[normalizeKeyword(canonical)]
	if !ok {
		return
	}
	kt.words[normalizeKeyword(spelling)] = tt
}
