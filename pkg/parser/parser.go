// Package parser turns a token stream into the surface ast.Expr / ast.Decl
// tree.
package parser

import (
	"fmt"

	"github.com/toodols/provecheck/pkg/ast"
	"github.com/toodols/provecheck/pkg/lexer"
)

// Error is a parse failure: an expected-token mismatch at the cursor,
// including running off the end of the stream while a token was required.
type Error struct {
	Pos     ast.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func errAt(tok lexer.Token, format string, args ...any) error {
	return &Error{Pos: tok.Span.Start, Message: fmt.Sprintf(format, args...)}
}

// Parser walks a pre-tokenized, whitespace/comment-stripped stream.
type Parser struct {
	toks []lexer.Token
	pos  int
}

func newParser(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // EOF sentinel
}

func (p *Parser) peekAt(offset int) lexer.Token {
	i := p.pos + offset
	if i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) next() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, errAt(tok, "expected %s, got %s", kind, tok.Kind)
	}
	return p.next(), nil
}

func startsAtom(k lexer.Kind) bool {
	return k == lexer.Ident || k == lexer.LParen
}

// ParseFile tokenizes and parses an entire declaration file.
func ParseFile(src []byte, path string) (*ast.File, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	var decls []*ast.Decl
	for p.peek().Kind != lexer.EOF {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return &ast.File{Path: path, Decls: decls}, nil
}

// parseDecl parses `ident : expr ( := expr )? ;`.
func (p *Parser) parseDecl() (*ast.Decl, error) {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	ty, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var def ast.Expr
	if p.peek().Kind == lexer.Assign {
		p.next()
		def, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(lexer.Semi)
	if err != nil {
		return nil, err
	}
	return &ast.Decl{
		Name:    nameTok.Text,
		Ty:      ty,
		Def:     def,
		Span:    ast.Span{Start: nameTok.Span.Start, End: semi.Span.End},
		NameEnd: nameTok.Span.End,
	}, nil
}

// parseExpr parses an application spine, then optionally a =>/-> marker
// whose body is another (right-associated) expr of the same class.
func (p *Parser) parseExpr() (ast.Expr, error) {
	head, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case lexer.FatArrow:
		p.next()
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Lam(head, body), nil
	case lexer.Arrow:
		p.next()
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.PiT(head, body), nil
	default:
		return head, nil
	}
}

// parseApp parses a left-associative application spine of atoms.
func (p *Parser) parseApp() (ast.Expr, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	spine := first
	for startsAtom(p.peek().Kind) {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		spine = ast.Ap(spine, arg)
	}
	return spine, nil
}

// parseAtom parses an identifier, an annotated binding `(ident : expr)`, or
// a parenthesised expression. The annotated form is chosen only when the
// tokens immediately after '(' are ident then ':'.
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Ident:
		p.next()
		return &ast.Ident{Name: tok.Text}, nil
	case lexer.LParen:
		if p.peekAt(1).Kind == lexer.Ident && p.peekAt(2).Kind == lexer.Colon {
			return p.parseBinding()
		}
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, errAt(tok, "expected an expression, got %s", tok.Kind)
	}
}

func (p *Parser) parseBinding() (ast.Expr, error) {
	open := p.next() // '('
	name := p.next() // ident
	p.next()         // ':'
	ty, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(lexer.RParen)
	if err != nil {
		return nil, err
	}
	b := ast.Bind(name.Text, ty)
	ast.SetSpan(b, ast.Span{Start: open.Span.Start, End: closeTok.Span.End})
	return b, nil
}
