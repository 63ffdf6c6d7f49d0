package engine

import (
	"errors"
	"io"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/steps"
	"github.com/shaiso/advent/internal/telemetry"
)

// inputIdent — имя корневого потока символов.
const inputIdent = "input"

// Option настраивает Parse.
type Option func(*parser)

// WithRegistry задаёт реестр стадий (по умолчанию steps.DefaultRegistry).
func WithRegistry(r *steps.Registry) Option {
	return func(p *parser) {
		p.registry = r
	}
}

// WithOutput задаёт поток, в который пишут терминальные стадии (по умолчанию stdout).
func WithOutput(w io.Writer) Option {
	return func(p *parser) {
		p.env = &steps.Env{Out: w}
	}
}

// parseState — чего ожидает парсер.
type parseState int

const (
	stateHead    parseState = iota // input или имя ветки
	stateArrow                     // |> или ->
	stateStage                     // имя стадии
	stateBranch                    // имя ветки после ->
	stateArgs                      // ( или продолжение после стадии
	stateLiteral                   // литерал аргумента
	stateClose                     // )
)

// parser — однопроходный разбор программы с явным состоянием.
//
// Грамматика:
//
//	pipeline := head ("|>" stage)* ("->" ident)?
//	head     := "input" | ident
//	stage    := ident ("(" literal ")")?
//	literal  := integer | 'char' | "string"
type parser struct {
	lex      *lexer
	registry *steps.Registry
	env      *steps.Env

	pipeline *Pipeline
	state    parseState

	// cur — слот, который заполнит следующая стадия или fanout.
	cur *Node
	// curType — тип элементов, приходящих в cur.
	curType domain.ItemType

	// Стадия, ожидающая аргумент.
	def    *steps.Def
	defTok token
	arg    domain.Literal
}

// Parse компилирует программу в граф, проверяя совместимость типов
// на каждом ребре.
//
// При ошибке всё уже построенное освобождается, возвращается *ParseError
// с позицией первого символа проблемного токена.
func Parse(src string, opts ...Option) (*Pipeline, error) {
	p := &parser{
		lex:      newLexer(src),
		registry: steps.DefaultRegistry(),
		env:      steps.DefaultEnv(),
		pipeline: &Pipeline{},
		state:    stateHead,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.run(); err != nil {
		_ = p.pipeline.Close()
		telemetry.ParseErrorsTotal.Inc()
		return nil, err
	}
	return p.pipeline, nil
}

// run читает токены до конца программы.
func (p *parser) run() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}

	for {
		consumed, err := p.step(tok)
		if err != nil {
			return err
		}
		if tok.kind == tokEOF {
			if consumed {
				return nil
			}
			continue
		}
		if consumed {
			if tok, err = p.lex.next(); err != nil {
				return err
			}
		}
	}
}

// step обрабатывает токен в текущем состоянии.
// Возвращает false, если токен нужно обработать ещё раз в новом состоянии.
func (p *parser) step(tok token) (bool, error) {
	switch p.state {
	case stateHead:
		return true, p.head(tok)

	case stateArrow:
		switch tok.kind {
		case tokPipe:
			p.state = stateStage
		case tokArrow:
			p.state = stateBranch
		default:
			return true, p.unexpected(tok, "'|>' or '->'")
		}
		return true, nil

	case stateStage:
		return true, p.stage(tok)

	case stateBranch:
		return true, p.branch(tok)

	case stateArgs:
		if tok.kind == tokLParen {
			p.state = stateLiteral
			return true, nil
		}
		// Аргумент не передан: завершаем стадию, токен разбирается заново
		return false, p.finishStage()

	case stateLiteral:
		return true, p.literal(tok)

	case stateClose:
		if tok.kind != tokRParen {
			return true, p.unexpected(tok, "')'")
		}
		return true, p.finishStage()
	}

	return true, nil
}

// head обрабатывает начало pipeline: input или имя объявленной ветки.
func (p *parser) head(tok token) error {
	if tok.kind == tokEOF {
		if p.pipeline.Head == nil {
			return newParseError(tok.pos, ErrUnexpectedEOF, "empty program: expected 'input'")
		}
		return nil
	}
	if tok.kind != tokIdent {
		return p.unexpected(tok, "start of identifier")
	}

	if tok.text == inputIdent {
		if p.pipeline.Head != nil {
			return newParseError(tok.pos, ErrInputNotFirst, "input as fanout is unsupported")
		}
		p.pipeline.Head = &Node{}
		p.cur = p.pipeline.Head
		p.curType = domain.ItemChar
		p.state = stateArrow
		return nil
	}

	fanout, ok := p.pipeline.Branch(tok.text)
	if !ok {
		return newParseError(tok.pos, ErrUnknownIdent, "unknown ident '%s'", tok.text)
	}
	child, err := fanout.attach()
	if err != nil {
		return &ParseError{Pos: tok.pos, Message: err.Error(), Err: err}
	}

	p.cur = child
	p.curType = fanout.Type
	p.state = stateArrow
	return nil
}

// stage находит стадию по имени и текущему типу.
func (p *parser) stage(tok token) error {
	if tok.kind != tokIdent {
		return p.unexpected(tok, "start of stage")
	}

	def, err := p.registry.Lookup(tok.text, p.curType)
	switch {
	case errors.Is(err, steps.ErrInputTypeMismatch):
		return newParseError(tok.pos, ErrTypeMismatch,
			"stage '%s' does not accept %s input: %s<%s>", tok.text, p.curType, tok.text, p.curType)
	case err != nil:
		return newParseError(tok.pos, ErrUnknownStage, "unknown stage: %s<%s>", tok.text, p.curType)
	}

	p.def = def
	p.defTok = tok
	p.arg = domain.Literal{}
	p.state = stateArgs
	return nil
}

// literal принимает аргумент стадии.
func (p *parser) literal(tok token) error {
	if !tok.isLiteral() {
		return p.unexpected(tok, "literal argument")
	}
	if tok.lit.Type != p.def.Arg {
		return newParseError(tok.pos, ErrArgumentType,
			"unexpected literal arg type: %s takes %s, got %s", p.def.Signature(), p.def.Arg, tok.lit.Type)
	}

	p.arg = tok.lit
	p.state = stateClose
	return nil
}

// finishStage создаёт состояние стадии и решает, продолжается ли цепочка.
func (p *parser) finishStage() error {
	stage, err := p.def.Build(p.env, p.arg)
	if err != nil {
		return &ParseError{Pos: p.defTok.pos, Message: err.Error(), Err: err}
	}
	p.cur.bind(p.def, stage)

	p.curType = p.def.Output
	p.def = nil

	if p.curType == domain.ItemNone {
		p.cur = nil
		p.state = stateHead
		return nil
	}

	next := &Node{}
	p.cur.Next = next
	p.cur = next
	p.state = stateArrow
	return nil
}

// branch регистрирует именованный fanout на месте текущего слота.
func (p *parser) branch(tok token) error {
	if tok.kind != tokIdent {
		return p.unexpected(tok, "start of identifier")
	}

	switch {
	case tok.text == inputIdent:
		return newParseError(tok.pos, ErrInputAsBranch, "cannot use 'input' as fanout target")
	case p.hasBranch(tok.text):
		return newParseError(tok.pos, ErrDuplicateBranch, "fanout '%s' is already declared", tok.text)
	case len(p.pipeline.Branches) == MaxBranches:
		return newParseError(tok.pos, ErrCapacityExceeded, "too many fanouts: limit is %d", MaxBranches)
	}

	fanout := &Fanout{Name: tok.text, Type: p.curType}
	p.cur.Fanout = fanout
	p.pipeline.Branches = append(p.pipeline.Branches, fanout)

	p.cur = nil
	p.state = stateHead
	return nil
}

func (p *parser) hasBranch(name string) bool {
	_, ok := p.pipeline.Branch(name)
	return ok
}

// unexpected формирует ошибку для токена, не подходящего состоянию.
func (p *parser) unexpected(tok token, want string) error {
	if tok.kind == tokEOF {
		return newParseError(tok.pos, ErrUnexpectedEOF, "unexpected end of program: expected %s", want)
	}
	return newParseError(tok.pos, ErrUnexpectedToken, "expected %s, got %s", want, tok.describe())
}
