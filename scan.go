package xcalc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TokenType classifies a Token.
type TokenType int

const (
	TokEOF TokenType = iota
	TokNum
	TokVar
	TokFunc
	TokLParen
	TokRParen
	TokPlus
	TokMinus
	TokMul
	TokDiv
	TokRaise
	TokEquals
)

var tokenNames = [...]string{
	TokEOF:    "end of input",
	TokNum:    "number",
	TokVar:    "variable",
	TokFunc:   "function",
	TokLParen: "'('",
	TokRParen: "')'",
	TokPlus:   "'+'",
	TokMinus:  "'-'",
	TokMul:    "'*'",
	TokDiv:    "'/'",
	TokRaise:  "'^'",
	TokEquals: "'='",
}

func (t TokenType) String() string { return tokenNames[t] }

// A Token is a lexical item. Num is set for TokNum, Var for TokVar and Func
// for TokFunc. Pos is the byte offset in the normalized input.
type Token struct {
	Type TokenType
	Num  float64
	Var  rune
	Func FuncKind
	Pos  int
}

func (t Token) String() string {
	switch t.Type {
	case TokNum:
		return formatFloat(t.Num)
	case TokVar:
		return fmt.Sprintf("variable %q", t.Var)
	case TokFunc:
		return t.Func.String()
	}
	return t.Type.String()
}

// SyntaxError reports a scanning or parsing failure at a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("%s (at %d)", e.Msg, e.Pos) }

// funcPrefixes are tried in order against the remaining input.
var funcPrefixes = []FuncKind{Sin, Cos, Tan, Csc, Sec, Cot, Ln, Log}

var punct = map[rune]TokenType{
	'+': TokPlus,
	'-': TokMinus,
	'*': TokMul,
	'/': TokDiv,
	'^': TokRaise,
	'(': TokLParen,
	')': TokRParen,
	'=': TokEquals,
}

// Scan splits input into tokens, ending with a TokEOF. The input is NFC
// normalized first.
func Scan(input string) ([]Token, error) {
	text := norm.NFC.String(input)
	var toks []Token
	pos := 0
	for pos < len(text) {
		r, w := utf8.DecodeRuneInString(text[pos:])
		switch {
		case unicode.IsSpace(r):
			pos += w
		case r >= '0' && r <= '9':
			end := pos
			dot := false
			for end < len(text) {
				c := text[end]
				if c == '.' && !dot {
					dot = true
				} else if c < '0' || c > '9' {
					break
				}
				end++
			}
			v, err := strconv.ParseFloat(text[pos:end], 64)
			if err != nil {
				return nil, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("bad number %q", text[pos:end])}
			}
			toks = append(toks, Token{Type: TokNum, Num: v, Pos: pos})
			pos = end
		case unicode.IsLetter(r):
			tok := Token{Type: TokVar, Var: r, Pos: pos}
			adv := w
			for _, k := range funcPrefixes {
				if strings.HasPrefix(text[pos:], k.String()) {
					tok = Token{Type: TokFunc, Func: k, Pos: pos}
					adv = len(k.String())
					break
				}
			}
			toks = append(toks, tok)
			pos += adv
		default:
			typ, ok := punct[r]
			if !ok {
				return nil, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("illegal character: %c", r)}
			}
			toks = append(toks, Token{Type: typ, Pos: pos})
			pos += w
		}
	}
	return append(toks, Token{Type: TokEOF, Pos: len(text)}), nil
}
