package ast

import (
	"desugar/internal/source"
	"desugar/internal/token"
)

// StmtKind enumerates statement node kinds.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtExpr
	StmtLocal
	StmtIf
	StmtWhile
	StmtForeach
	StmtReturn
	StmtThrow
	StmtBreak
	StmtContinue
	StmtSwitch
	StmtLocalFunc
	StmtEmpty
)

var stmtKindNames = [...]string{
	StmtInvalid:   "invalid",
	StmtBlock:     "block",
	StmtExpr:      "expr",
	StmtLocal:     "local",
	StmtIf:        "if",
	StmtWhile:     "while",
	StmtForeach:   "foreach",
	StmtReturn:    "return",
	StmtThrow:     "throw",
	StmtBreak:     "break",
	StmtContinue:  "continue",
	StmtSwitch:    "switch",
	StmtLocalFunc: "local-function",
	StmtEmpty:     "empty",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "invalid"
}

// Stmt is the arena header of a statement node.
type Stmt struct {
	Kind   StmtKind
	Span   source.Span
	Lead   []token.Trivia
	Trail  []token.Trivia
	Origin StmtID
	Data   StmtData
}

// StmtData is the kind-specific payload of a statement.
type StmtData interface {
	StmtKind() StmtKind
}

type (
	// BlockStmt holds its statements plus the trivia written before the closing brace.
	BlockStmt struct {
		Stmts     []StmtID
		CloseLead []token.Trivia
	}

	ExprStmt struct {
		Expr ExprID
	}

	LocalStmt struct {
		Type  TypeID
		Vars  []VarDecl
		Const bool
	}

	VarDecl struct {
		Name string
		Init ExprID
	}

	IfStmt struct {
		Cond ExprID
		Then StmtID
		Else StmtID
	}

	WhileStmt struct {
		Cond ExprID
		Body StmtID
	}

	ForeachStmt struct {
		Type   TypeID
		Name   string
		Source ExprID
		Body   StmtID
	}

	ReturnStmt struct {
		Value ExprID
	}

	ThrowStmt struct {
		Value ExprID
	}

	BreakStmt struct{}

	ContinueStmt struct{}

	SwitchStmt struct {
		Value     ExprID
		Sections  []SwitchSection
		CloseLead []token.Trivia
	}

	SwitchSection struct {
		Lead   []token.Trivia
		Labels []SwitchLabel
		Stmts  []StmtID
	}

	// SwitchLabel is `case Pattern when When:` or, with Default set, `default:`.
	SwitchLabel struct {
		Pattern PatternID
		When    ExprID
		Default bool
	}

	LocalFuncStmt struct {
		Decl DeclID
	}

	EmptyStmt struct{}
)

func (BlockStmt) StmtKind() StmtKind     { return StmtBlock }
func (ExprStmt) StmtKind() StmtKind      { return StmtExpr }
func (LocalStmt) StmtKind() StmtKind     { return StmtLocal }
func (IfStmt) StmtKind() StmtKind        { return StmtIf }
func (WhileStmt) StmtKind() StmtKind     { return StmtWhile }
func (ForeachStmt) StmtKind() StmtKind   { return StmtForeach }
func (ReturnStmt) StmtKind() StmtKind    { return StmtReturn }
func (ThrowStmt) StmtKind() StmtKind     { return StmtThrow }
func (BreakStmt) StmtKind() StmtKind     { return StmtBreak }
func (ContinueStmt) StmtKind() StmtKind  { return StmtContinue }
func (SwitchStmt) StmtKind() StmtKind    { return StmtSwitch }
func (LocalFuncStmt) StmtKind() StmtKind { return StmtLocalFunc }
func (EmptyStmt) StmtKind() StmtKind     { return StmtEmpty }
