package schema

import (
	"fmt"
	"os"

	"github.com/timtadh/lexmachine"
)

// Parse parses schema source text into a declaration File. The result is
// purely syntactic; run Resolve to check it.
func Parse(src string) (*File, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.file()
}

// ParseFile reads and parses one schema file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

type parser struct {
	toks []*lexmachine.Token
	pos  int
}

func (p *parser) cur() *lexmachine.Token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return p.toks[p.pos]
}

func (p *parser) at(id int) bool {
	t := p.cur()
	return t != nil && t.Type == id
}

func (p *parser) accept(id int) *lexmachine.Token {
	if !p.at(id) {
		return nil
	}
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) expect(id int) (*lexmachine.Token, error) {
	if t := p.accept(id); t != nil {
		return t, nil
	}
	t := p.cur()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of schema, expected %s: %w",
			tokNames[id], ErrParse)
	}
	return nil, fmt.Errorf("%d:%d: expected %s, found %q: %w",
		t.StartLine, t.StartColumn, tokNames[id], string(t.Lexeme), ErrParse)
}

func pos(t *lexmachine.Token) Pos {
	return Pos{Line: t.StartLine, Col: t.StartColumn}
}

func (p *parser) file() (*File, error) {
	if _, err := p.expect(tokSchema); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	f := &File{Name: string(name.Lexeme)}
	for p.cur() != nil {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}

func (p *parser) decl() (*TypeDecl, error) {
	switch t := p.cur(); t.Type {
	case tokNode:
		p.pos++
		return p.typeDecl(ClassNode, pos(t), true)
	case tokAbstract:
		p.pos++
		return p.typeDecl(ClassIntermediate, pos(t), false)
	case tokVariant:
		p.pos++
		return p.variantDecl(pos(t))
	default:
		return nil, fmt.Errorf("%d:%d: expected declaration, found %q: %w",
			t.StartLine, t.StartColumn, string(t.Lexeme), ErrParse)
	}
}

// typeDecl parses "node Name : Super { members }" declarations. The body is
// mandatory for nodes and optional for abstracts.
func (p *parser) typeDecl(class Class, at Pos, bodyRequired bool) (*TypeDecl, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	d := &TypeDecl{Name: string(name.Lexeme), Class: class, Pos: at}
	if p.accept(tokColon) != nil {
		super, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		d.Super = string(super.Lexeme)
	}
	if p.accept(tokLBrace) == nil {
		if bodyRequired {
			_, err := p.expect(tokLBrace)
			return nil, err
		}
		return d, nil
	}
	for p.accept(tokRBrace) == nil {
		if p.cur() == nil {
			return nil, fmt.Errorf("unexpected end of schema in %s body: %w",
				d.Name, ErrParse)
		}
		if p.accept(tokComma) != nil {
			continue
		}
		if p.at(tokIndex) {
			idx, err := p.indexDecl()
			if err != nil {
				return nil, err
			}
			d.Indices = append(d.Indices, idx)
			continue
		}
		prop, err := p.propDecl()
		if err != nil {
			return nil, err
		}
		d.Props = append(d.Props, prop)
	}
	return d, nil
}

// propDecl parses "name: []Type?" with [] and ? both optional.
func (p *parser) propDecl() (*PropDecl, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	d := &PropDecl{Name: string(name.Lexeme), Pos: pos(name)}
	if p.accept(tokSlice) != nil {
		d.IsArray = true
	}
	typ, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	d.Type = string(typ.Lexeme)
	if p.accept(tokQuest) != nil {
		if d.IsArray {
			return nil, fmt.Errorf("%d:%d: array property %s cannot be nullable: %w",
				name.StartLine, name.StartColumn, d.Name, ErrParse)
		}
		d.Nullable = true
	}
	return d, nil
}

// indexDecl parses "index Name on source key a.b.c".
func (p *parser) indexDecl() (*IndexDecl, error) {
	kw, _ := p.expect(tokIndex)
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokOn); err != nil {
		return nil, err
	}
	src, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokKey); err != nil {
		return nil, err
	}
	d := &IndexDecl{
		Name:   string(name.Lexeme),
		Source: string(src.Lexeme),
		Pos:    pos(kw),
	}
	for {
		seg, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		d.KeyPath = append(d.KeyPath, string(seg.Lexeme))
		if p.accept(tokDot) == nil {
			return d, nil
		}
	}
}

// variantDecl parses "variant Name = A | B | C".
func (p *parser) variantDecl(at Pos) (*TypeDecl, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEq); err != nil {
		return nil, err
	}
	d := &TypeDecl{Name: string(name.Lexeme), Class: ClassVariant, Pos: at}
	for {
		m, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		d.Members = append(d.Members, string(m.Lexeme))
		if p.accept(tokPipe) == nil {
			return d, nil
		}
	}
}
