package schema

import (
	"fmt"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	tokIdent int = iota
	tokSchema
	tokNode
	tokAbstract
	tokVariant
	tokIndex
	tokOn
	tokKey
	tokColon
	tokLBrace
	tokRBrace
	tokEq
	tokPipe
	tokDot
	tokComma
	tokQuest
	tokSlice
)

var tokNames = map[int]string{
	tokIdent:    "identifier",
	tokSchema:   "'schema'",
	tokNode:     "'node'",
	tokAbstract: "'abstract'",
	tokVariant:  "'variant'",
	tokIndex:    "'index'",
	tokOn:       "'on'",
	tokKey:      "'key'",
	tokColon:    "':'",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokEq:       "'='",
	tokPipe:     "'|'",
	tokDot:      "'.'",
	tokComma:    "','",
	tokQuest:    "'?'",
	tokSlice:    "'[]'",
}

var (
	lexOnce sync.Once
	lex     *lexmachine.Lexer
	lexErr  error
)

func skipMatch(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func mkToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// lexer compiles the DFA once. Keyword patterns are added before the
// identifier pattern so equal-length matches resolve to the keyword.
func lexer() (*lexmachine.Lexer, error) {
	lexOnce.Do(func() {
		lex = lexmachine.NewLexer()
		lex.Add([]byte(`( |\t|\n|\r)+`), skipMatch)
		lex.Add([]byte(`//[^\n]*`), skipMatch)
		lex.Add([]byte(`schema`), mkToken(tokSchema))
		lex.Add([]byte(`node`), mkToken(tokNode))
		lex.Add([]byte(`abstract`), mkToken(tokAbstract))
		lex.Add([]byte(`variant`), mkToken(tokVariant))
		lex.Add([]byte(`index`), mkToken(tokIndex))
		lex.Add([]byte(`on`), mkToken(tokOn))
		lex.Add([]byte(`key`), mkToken(tokKey))
		lex.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), mkToken(tokIdent))
		lex.Add([]byte(`\[\]`), mkToken(tokSlice))
		lex.Add([]byte(`:`), mkToken(tokColon))
		lex.Add([]byte(`\{`), mkToken(tokLBrace))
		lex.Add([]byte(`\}`), mkToken(tokRBrace))
		lex.Add([]byte(`=`), mkToken(tokEq))
		lex.Add([]byte(`\|`), mkToken(tokPipe))
		lex.Add([]byte(`\.`), mkToken(tokDot))
		lex.Add([]byte(`,`), mkToken(tokComma))
		lex.Add([]byte(`\?`), mkToken(tokQuest))
		lexErr = lex.Compile()
	})
	return lex, lexErr
}

// scan tokenizes schema source, failing with a positioned ErrParse on input
// the DFA cannot consume.
func scan(src string) ([]*lexmachine.Token, error) {
	l, err := lexer()
	if err != nil {
		return nil, err
	}
	s, err := l.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	var toks []*lexmachine.Token
	for tk, err, eof := s.Next(); !eof; tk, err, eof = s.Next() {
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				return nil, fmt.Errorf("%d:%d: unexpected input: %w",
					ui.StartLine, ui.StartColumn, ErrParse)
			}
			return nil, fmt.Errorf("scan: %v: %w", err, ErrParse)
		}
		if tk == nil {
			continue
		}
		toks = append(toks, tk.(*lexmachine.Token))
	}
	return toks, nil
}
