package ast

import (
	"fmt"
	"strings"
)

// token kinds produced by the lexer.
type tokenKind int

const (
	tokWord tokenKind = iota
	tokPipe
	tokSemi
	tokAnd
	tokOr
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lex splits a command line into words and the `|`, `;`, `&&`, `||`
// operators, honouring single- and double-quoted spans as opaque words.
func lex(input string) ([]token, error) {
	var toks []token
	r := []rune(input)
	i := 0
	n := len(r)

	for i < n {
		switch {
		case r[i] == ' ' || r[i] == '\t' || r[i] == '\n':
			i++
		case r[i] == '|' && i+1 < n && r[i+1] == '|':
			toks = append(toks, token{tokOr, "||"})
			i += 2
		case r[i] == '|':
			toks = append(toks, token{tokPipe, "|"})
			i++
		case r[i] == '&' && i+1 < n && r[i+1] == '&':
			toks = append(toks, token{tokAnd, "&&"})
			i += 2
		case r[i] == ';':
			toks = append(toks, token{tokSemi, ";"})
			i++
		case r[i] == '\'' || r[i] == '"':
			quote := r[i]
			j := i + 1
			for j < n && r[j] != quote {
				j++
			}
			if j >= n {
				return nil, fmt.Errorf("unterminated %c quote", quote)
			}
			toks = append(toks, token{tokWord, string(r[i+1 : j])})
			i = j + 1
		default:
			j := i
			for j < n && !strings.ContainsRune(" \t\n|;&", r[j]) {
				j++
			}
			toks = append(toks, token{tokWord, string(r[i:j])})
			i = j
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

// parser walks the token stream with one token of lookahead.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) next() token  { t := p.toks[p.pos]; p.pos++; return t }

// Parse lexes and parses a full command line into an Ast. `if`/`elif`/
// `else`/`then`/`fi` are recognised as leading bare words introducing the
// corresponding block; everything else is a simple-command/pipeline/list
// grammar (spec §6.6 "pipelines with |; ; and &&/|| sequencing").
func Parse(input string) (*Ast, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	var commands []Command
	for p.peek().kind != tokEOF {
		cmd, err := p.parseList()
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
		if p.peek().kind == tokSemi {
			p.next()
		}
	}
	return &Ast{Commands: commands}, nil
}

func (p *parser) parseList() (Command, error) {
	if p.peek().kind == tokWord && p.peek().text == "if" {
		return p.parseIf()
	}

	first, err := p.parsePipeline()
	if err != nil {
		return Command{}, err
	}

	cmds := []Command{first}
	var ops []ListOperator
	for {
		switch p.peek().kind {
		case tokAnd:
			p.next()
			ops = append(ops, OpAnd)
		case tokOr:
			p.next()
			ops = append(ops, OpOr)
		default:
			if len(cmds) == 1 {
				return first, nil
			}
			return Command{Kind: KindList, List: &List{Commands: cmds, Operators: ops}}, nil
		}
		next, err := p.parsePipeline()
		if err != nil {
			return Command{}, err
		}
		cmds = append(cmds, next)
	}
}

func (p *parser) parsePipeline() (Command, error) {
	first, err := p.parseSimple()
	if err != nil {
		return Command{}, err
	}
	stages := []Command{first}
	for p.peek().kind == tokPipe {
		p.next()
		next, err := p.parseSimple()
		if err != nil {
			return Command{}, err
		}
		stages = append(stages, next)
	}
	if len(stages) == 1 {
		return first, nil
	}
	return Command{Kind: KindPipeline, Pipeline: &Pipeline{Stages: stages}}, nil
}

func (p *parser) parseSimple() (Command, error) {
	if p.peek().kind != tokWord {
		return Command{}, fmt.Errorf("expected command, got %q", p.peek().text)
	}
	name := p.next().text
	var args []string
	for p.peek().kind == tokWord {
		args = append(args, p.next().text)
	}
	return Command{Kind: KindSimple, Simple: &SimpleCommand{Name: name, Args: args}}, nil
}

func (p *parser) parseIf() (Command, error) {
	p.next() // consume "if"
	cond, err := p.parseUntilKeyword("then")
	if err != nil {
		return Command{}, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return Command{}, err
	}
	thenBody, err := p.parseUntilKeyword("elif", "else", "fi")
	if err != nil {
		return Command{}, err
	}

	switch p.peek().text {
	case "elif":
		nested, err := p.parseElifAsIf()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindIf, If: &IfStatement{Condition: cond, Then: thenBody, ElseBranch: []Command{nested}}}, nil
	case "else":
		p.next()
		elseBody, err := p.parseUntilKeyword("fi")
		if err != nil {
			return Command{}, err
		}
		if err := p.expectKeyword("fi"); err != nil {
			return Command{}, err
		}
		return Command{Kind: KindIf, If: &IfStatement{Condition: cond, Then: thenBody, ElseBranch: elseBody}}, nil
	case "fi":
		p.next()
		return Command{Kind: KindIf, If: &IfStatement{Condition: cond, Then: thenBody}}, nil
	default:
		return Command{}, fmt.Errorf("unterminated if statement")
	}
}

// parseElifAsIf consumes one `elif COND then BODY ...` clause and encodes it
// as a nested If, matching the original parser's "elif chains become nested
// If in else_branch" representation (spec §8).
func (p *parser) parseElifAsIf() (Command, error) {
	p.next() // consume "elif"
	cond, err := p.parseUntilKeyword("then")
	if err != nil {
		return Command{}, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return Command{}, err
	}
	thenBody, err := p.parseUntilKeyword("elif", "else", "fi")
	if err != nil {
		return Command{}, err
	}

	switch p.peek().text {
	case "elif":
		nested, err := p.parseElifAsIf()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindIf, If: &IfStatement{Condition: cond, Then: thenBody, ElseBranch: []Command{nested}}}, nil
	case "else":
		p.next()
		elseBody, err := p.parseUntilKeyword("fi")
		if err != nil {
			return Command{}, err
		}
		if err := p.expectKeyword("fi"); err != nil {
			return Command{}, err
		}
		return Command{Kind: KindIf, If: &IfStatement{Condition: cond, Then: thenBody, ElseBranch: elseBody}}, nil
	case "fi":
		p.next()
		return Command{Kind: KindIf, If: &IfStatement{Condition: cond, Then: thenBody}}, nil
	default:
		return Command{}, fmt.Errorf("unterminated elif clause")
	}
}

func (p *parser) expectKeyword(kw string) error {
	if p.peek().kind != tokWord || p.peek().text != kw {
		return fmt.Errorf("expected %q, got %q", kw, p.peek().text)
	}
	p.next()
	return nil
}

// parseUntilKeyword parses a `;`-separated command list until one of the
// given bare-word keywords is seen (without consuming it).
func (p *parser) parseUntilKeyword(keywords ...string) ([]Command, error) {
	stop := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		stop[k] = true
	}

	var out []Command
	for {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("unexpected end of input")
		}
		if p.peek().kind == tokWord && stop[p.peek().text] {
			return out, nil
		}
		cmd, err := p.parseList()
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
		if p.peek().kind == tokSemi {
			p.next()
		}
	}
}
