// Package parser turns command-language source into a command tree. Parsing
// never runs anything; words stay unresolved until the tree is executed.
//
// Operators bind, loosest first: newline, ';', '||', '&&'. All of them are
// left-associative and parentheses group.
package parser

import (
	"fmt"

	"github.com/satococoa/gitsh/internal/arguments"
	gitsherrors "github.com/satococoa/gitsh/internal/errors"
	"github.com/satococoa/gitsh/internal/interp"
)

// Parse parses input into a command tree. Blank input yields interp.Noop.
// Errors are always *errors.ParseError.
func Parse(input string) (interp.Node, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) skip(types ...TokenType) {
	for {
		typ := p.peek().Type
		found := false
		for _, t := range types {
			if typ == t {
				found = true
				break
			}
		}
		if !found {
			return
		}
		p.next()
	}
}

func (p *parser) unexpected(tok Token) error {
	return gitsherrors.UnexpectedToken(tok.describe(), tok.Pos)
}

func (p *parser) parseProgram() (interp.Node, error) {
	node, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != EOF {
		return nil, p.unexpected(tok)
	}
	return node, nil
}

// parseBlock parses commands up to the end of input or a closing ')'. A
// block with no commands is a Noop.
func (p *parser) parseBlock() (interp.Node, error) {
	p.skip(SPACE, EOL)
	if atBlockEnd(p.peek().Type) {
		return interp.Noop{}, nil
	}
	return p.parseLines()
}

func atBlockEnd(typ TokenType) bool {
	return typ == EOF || typ == RIGHT_PAREN || typ == SUBSHELL_END
}

// parseLines handles newline-separated commands, the loosest binding level
func (p *parser) parseLines() (interp.Node, error) {
	left, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == EOL {
		p.skip(SPACE, EOL)
		if atBlockEnd(p.peek().Type) {
			break
		}

		right, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		left = &interp.Multi{Left: left, Right: right}
	}
	return left, nil
}

// parseSequence handles ';'. A trailing ';' before a newline or the end of
// the block is allowed.
func (p *parser) parseSequence() (interp.Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == SEMICOLON {
		p.next()
		p.skip(SPACE)
		if typ := p.peek().Type; typ == EOL || atBlockEnd(typ) {
			break
		}

		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &interp.Multi{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseOr() (interp.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == OR {
		if err := p.continueAfter(p.next()); err != nil {
			return nil, err
		}

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &interp.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (interp.Node, error) {
	left, err := p.parseCommand()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == AND {
		if err := p.continueAfter(p.next()); err != nil {
			return nil, err
		}

		right, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		left = &interp.And{Left: left, Right: right}
	}
	return left, nil
}

// continueAfter skips the line breaks allowed after a binary operator. Input
// that ends there is incomplete.
func (p *parser) continueAfter(op Token) error {
	p.skip(SPACE, EOL)
	if p.peek().Type == EOF {
		return &gitsherrors.ParseError{
			Message:    fmt.Sprintf("expected a command after %s", op.Type),
			Pos:        op.Pos,
			Incomplete: true,
		}
	}
	return nil
}

// parseCommand parses one command or a parenthesized group
func (p *parser) parseCommand() (interp.Node, error) {
	p.skip(SPACE)

	if p.peek().Type == LEFT_PAREN {
		open := p.next()

		p.skip(SPACE, EOL)
		if p.peek().Type == RIGHT_PAREN {
			return nil, p.unexpected(p.peek())
		}

		node, err := p.parseLines()
		if err != nil {
			return nil, err
		}

		p.skip(SPACE, EOL)
		switch tok := p.next(); tok.Type {
		case RIGHT_PAREN:
		case EOF:
			return nil, gitsherrors.UnterminatedInput("parenthesis", open.Pos)
		default:
			return nil, p.unexpected(tok)
		}

		p.skip(SPACE)
		return node, nil
	}

	args, err := p.parseArgumentList()
	if err != nil {
		return nil, err
	}
	return &interp.LazyCommand{Args: args}, nil
}

func startsArgument(typ TokenType) bool {
	switch typ {
	case WORD, VAR, SUBSHELL_START, LEFT_BRACE:
		return true
	}
	return false
}

func (p *parser) parseArgumentList() (arguments.List, error) {
	if tok := p.peek(); !startsArgument(tok.Type) {
		return nil, p.unexpected(tok)
	}

	var args arguments.List
	for startsArgument(p.peek().Type) {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skip(SPACE)
	}
	return args, nil
}

// parseArgument joins adjacent parts with no space between them
func (p *parser) parseArgument() (arguments.Argument, error) {
	var parts []arguments.Argument
	for startsArgument(p.peek().Type) {
		part, err := p.parsePart()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return arguments.Composite{Parts: parts}, nil
}

func (p *parser) parsePart() (arguments.Argument, error) {
	tok := p.next()
	switch tok.Type {
	case WORD:
		return arguments.String{Value: tok.Value}, nil
	case VAR:
		return arguments.Variable{Name: tok.Value}, nil
	case LEFT_BRACE:
		return p.parseBraceExpansion(tok)
	case SUBSHELL_START:
		return p.parseSubshell(tok)
	}
	return nil, p.unexpected(tok)
}

// parseBraceExpansion parses the options after '{'. Missing options around
// commas and an empty '{}' stand for the empty string.
func (p *parser) parseBraceExpansion(open Token) (arguments.Argument, error) {
	if p.peek().Type == RIGHT_BRACE {
		p.next()
		return arguments.BraceExpansion{Options: []arguments.Argument{arguments.String{}}}, nil
	}

	var options []arguments.Argument
	for {
		var option arguments.Argument = arguments.String{}
		if startsArgument(p.peek().Type) {
			var err error
			if option, err = p.parseArgument(); err != nil {
				return nil, err
			}
		}
		options = append(options, option)

		switch tok := p.next(); tok.Type {
		case COMMA:
			continue
		case RIGHT_BRACE:
			return arguments.BraceExpansion{Options: options}, nil
		case EOF:
			return nil, gitsherrors.UnterminatedInput("brace expansion", open.Pos)
		default:
			return nil, p.unexpected(tok)
		}
	}
}

func (p *parser) parseSubshell(open Token) (arguments.Argument, error) {
	program, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	switch tok := p.next(); tok.Type {
	case SUBSHELL_END:
		return arguments.Subshell{Program: program, Quoted: open.Quoted}, nil
	case EOF:
		return nil, gitsherrors.UnterminatedInput("subshell", open.Pos)
	default:
		return nil, p.unexpected(tok)
	}
}
