package bplus

import (
	"fmt"
	"strings"
)

// Three error classes flow through this interpreter:
//
//  1. Lexical errors travel the token channel as ILLEGAL tokens; the parser
//     converts them into ParseErrors.
//  2. Syntax errors accumulate inside the parser as ParseErrors; parsing
//     never aborts on the first one.
//  3. Runtime errors are ordinary Error objects inside the value space and
//     propagate by data flow (see evaluator.go).
//
// This file holds the ParseError type, the caret-snippet renderer used by
// the CLI, and the ErrorManager that formats structured diagnostics with
// localized message templates (default Banglish, overridable by a language
// pack).

// ParseError is a parser diagnostic with a source position. Line is 1-based,
// Col is 0-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// WrapErrorWithSource augments a *ParseError with a caret-annotated snippet
// of the source. Other error kinds are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

func WrapErrorWithName(err error, srcName, src string) error {
	pe, ok := err.(*ParseError)
	if !ok {
		return err
	}
	return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", srcName, pe.Line, pe.Col+1, pe.Msg))
}

// prettyErrorString builds a snippet with a header, one line of context on
// each side when available, and a caret under the 1-based column. Positions
// out of range are clamped so rendering never fails.
func prettyErrorString(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// --- structured diagnostics & localized templates ---

// DiagnosticKind enumerates the structured error kinds the error manager can
// render. Parameters slot into the active template by position ({0}, {1}).
type DiagnosticKind string

const (
	ErrUnexpectedCharacter DiagnosticKind = "unexpected_character"
	ErrUnterminatedString  DiagnosticKind = "unterminated_string"
	ErrUnterminatedComment DiagnosticKind = "unterminated_comment"
	ErrInvalidNumber       DiagnosticKind = "invalid_number"
	ErrUnexpectedToken     DiagnosticKind = "unexpected_token"
	ErrMissingToken        DiagnosticKind = "missing_token"
	ErrInvalidExpression   DiagnosticKind = "invalid_expression"
	ErrInvalidStatement    DiagnosticKind = "invalid_statement"
	ErrTypeMismatch        DiagnosticKind = "type_mismatch"
	ErrUndefinedVariable   DiagnosticKind = "undefined_variable"
	ErrUndefinedFunction   DiagnosticKind = "undefined_function"
	ErrWrongArgumentCount  DiagnosticKind = "wrong_argument_count"
	ErrDivisionByZero      DiagnosticKind = "division_by_zero"
	ErrFileNotFound        DiagnosticKind = "file_not_found"
	ErrStackOverflow       DiagnosticKind = "stack_overflow"
	ErrInternal            DiagnosticKind = "internal_error"
)

// Position locates a diagnostic in its source unit.
type Position struct {
	Line int
	Col  int
	File string
}

// Diagnostic is a structured error: a kind, optional position, template
// parameters, and an optional message that overrides the template entirely.
type Diagnostic struct {
	Kind     DiagnosticKind
	Position *Position
	Params   []string
	Message  string
}

func NewDiagnostic(kind DiagnosticKind, params ...string) Diagnostic {
	return Diagnostic{Kind: kind, Params: params}
}

func (d Diagnostic) At(pos Position) Diagnostic {
	d.Position = &pos
	return d
}

// defaultTemplates are the built-in Banglish (phonetic Bengali) messages.
var defaultTemplates = map[DiagnosticKind]string{
	ErrUnexpectedCharacter: "Aporjashito character '{0}' pawa geche",
	ErrUnterminatedString:  "String shesh hoy nai - quote chinho onuposthit",
	ErrUnterminatedComment: "Comment shesh hoy nai - bondho korar chinho onuposthit",
	ErrInvalidNumber:       "Bhul number '{0}' - thik number likhun",
	ErrUnexpectedToken:     "Protjashito chilo '{1}' kintu pawa gelo '{0}'",
	ErrMissingToken:        "Onuposthit token '{0}' - doya kore jog korun",
	ErrInvalidExpression:   "Bhul expression: {0}",
	ErrInvalidStatement:    "Bhul statement: {0}",
	ErrTypeMismatch:        "Data type mile na - protjashito '{0}' kintu pawa gelo '{1}'",
	ErrUndefinedVariable:   "Ojana variable '{0}' - prothome ghoshona korun",
	ErrUndefinedFunction:   "Ojana function '{0}' - thik naam likhun",
	ErrWrongArgumentCount:  "Bhul argument sonkha - proyojon {0}ti, dewa hoyeche {1}ti",
	ErrDivisionByZero:      "Shunno diye bhag kora jay na",
	ErrFileNotFound:        "File '{0}' pawa jay ni",
	ErrStackOverflow:       "Stack overflow - odhik recursive call",
	ErrInternal:            "Antoronio truti: {0}",
}

// ErrorManager renders structured diagnostics with the active template set.
// The default templates are Banglish; a language pack can replace them.
type ErrorManager struct {
	templates    map[DiagnosticKind]string
	language     string
	showPosition bool
}

// NewErrorManager returns a manager with the built-in Banglish templates.
func NewErrorManager() *ErrorManager {
	templates := make(map[DiagnosticKind]string, len(defaultTemplates))
	for k, v := range defaultTemplates {
		templates[k] = v
	}
	return &ErrorManager{templates: templates, language: "banglish", showPosition: true}
}

// SetLanguagePack replaces templates with those of pack. Kinds the pack does
// not cover keep their built-in message.
func (em *ErrorManager) SetLanguagePack(pack *LanguagePack) {
	for kind, tpl := range pack.ErrorTemplates {
		em.templates[DiagnosticKind(kind)] = tpl
	}
	em.language = pack.Language
}

// Language reports the active template language.
func (em *ErrorManager) Language() string { return em.language }

// Format renders a diagnostic to a display string.
func (em *ErrorManager) Format(d Diagnostic) string {
	msg := d.Message
	if msg == "" {
		msg = em.render(d.Kind, d.Params)
	}
	if em.showPosition && d.Position != nil {
		p := d.Position
		if p.File != "" {
			return fmt.Sprintf("%s:%d:%d: %s", p.File, p.Line, p.Col, msg)
		}
		return fmt.Sprintf("%d:%d: %s", p.Line, p.Col, msg)
	}
	return msg
}

func (em *ErrorManager) render(kind DiagnosticKind, params []string) string {
	tpl, ok := em.templates[kind]
	if !ok {
		return fmt.Sprintf("Ojana error: %s", kind)
	}
	for i, p := range params {
		tpl = strings.ReplaceAll(tpl, fmt.Sprintf("{%d}", i), p)
	}
	return tpl
}
