package ast

type (
	// главные сущности
	ExprID    uint32
	StmtID    uint32
	DeclID    uint32
	TypeID    uint32
	PatternID uint32
)

const (
	NoExprID    ExprID    = 0
	NoStmtID    StmtID    = 0
	NoDeclID    DeclID    = 0
	NoTypeID    TypeID    = 0
	NoPatternID PatternID = 0
)

func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PatternID) IsValid() bool { return id != NoPatternID }
