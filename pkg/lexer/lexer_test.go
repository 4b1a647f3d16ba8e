package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allTokens(source string) []Token {
	l := New(source)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func TestPunctuationAndOperators(t *testing.T) {
	toks := allTokens("(){},.-+;/*! != = == < <= > >=")
	want := []TokenType{
		TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace,
		TokenComma, TokenDot, TokenMinus, TokenPlus, TokenSemicolon,
		TokenSlash, TokenStar, TokenBang, TokenBangEqual, TokenEqual,
		TokenEqualEqual, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual,
		TokenEOF,
	}
	require.Len(t, toks, len(want))
	for i, tt := range want {
		require.Equalf(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	toks := allTokens("and class printer print")
	require.Equal(t, TokenAnd, toks[0].Type)
	require.Equal(t, TokenClass, toks[1].Type)
	require.Equal(t, TokenIdentifier, toks[2].Type)
	require.Equal(t, "printer", toks[2].Lexeme)
	require.Equal(t, TokenPrint, toks[3].Type)
}

func TestNumberLiterals(t *testing.T) {
	toks := allTokens("123 45.67 89.")
	require.Equal(t, TokenNumber, toks[0].Type)
	require.Equal(t, "123", toks[0].Lexeme)
	require.Equal(t, TokenNumber, toks[1].Type)
	require.Equal(t, "45.67", toks[1].Lexeme)
	// a trailing dot with no following digit is not part of the number
	require.Equal(t, TokenNumber, toks[2].Type)
	require.Equal(t, "89", toks[2].Lexeme)
	require.Equal(t, TokenDot, toks[3].Type)
}

func TestStringLiteralAndUnterminated(t *testing.T) {
	toks := allTokens(`"hello world"`)
	require.Equal(t, TokenString, toks[0].Type)
	require.Equal(t, `"hello world"`, toks[0].Lexeme)

	toks = allTokens(`"unterminated`)
	require.Equal(t, TokenError, toks[0].Type)
	require.Equal(t, "Unterminated string.", toks[0].Lexeme)
}

func TestStringSpanningLinesTracksLineNumber(t *testing.T) {
	toks := allTokens("\"line one\nstill a string\" 1")
	require.Equal(t, TokenString, toks[0].Type)
	require.Equal(t, TokenNumber, toks[1].Type)
	require.Equal(t, 2, toks[1].Line)
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := allTokens("1 // a trailing comment\n2")
	require.Equal(t, TokenNumber, toks[0].Type)
	require.Equal(t, "1", toks[0].Lexeme)
	require.Equal(t, TokenNumber, toks[1].Type)
	require.Equal(t, "2", toks[1].Lexeme)
	require.Equal(t, 2, toks[1].Line)
}

func TestUnexpectedCharacterProducesErrorToken(t *testing.T) {
	toks := allTokens("@")
	require.Equal(t, TokenError, toks[0].Type)
	require.Equal(t, "Unexpected character.", toks[0].Lexeme)
}

func TestEOFRepeatsForever(t *testing.T) {
	l := New("")
	first := l.NextToken()
	second := l.NextToken()
	require.Equal(t, TokenEOF, first.Type)
	require.Equal(t, TokenEOF, second.Type)
}

func TestTokenTypeStringer(t *testing.T) {
	require.Equal(t, "PRINT", TokenPrint.String())
	require.Equal(t, "UNKNOWN", TokenType(9999).String())
}
