package ast

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"desugar/internal/source"
	"desugar/internal/token"
)

// Headers are encoded as fixed arrays [kind, span, lead, trail, origin, data];
// the kind selects the concrete payload type on decode.
const headerLen = 6

func decodeAs[T, I any](dec *msgpack.Decoder) (I, error) {
	var v T
	if err := dec.Decode(&v); err != nil {
		var zero I
		return zero, err
	}
	out, ok := any(v).(I)
	if !ok {
		var zero I
		return zero, fmt.Errorf("ast: %T does not implement %T", v, zero)
	}
	return out, nil
}

var exprDecoders = map[ExprKind]func(*msgpack.Decoder) (ExprData, error){
	ExprIdent:         decodeAs[IdentExpr, ExprData],
	ExprLit:           decodeAs[LitExpr, ExprData],
	ExprThis:          decodeAs[ThisExpr, ExprData],
	ExprMember:        decodeAs[MemberExpr, ExprData],
	ExprIndex:         decodeAs[IndexExpr, ExprData],
	ExprCall:          decodeAs[CallExpr, ExprData],
	ExprUnary:         decodeAs[UnaryExpr, ExprData],
	ExprBinary:        decodeAs[BinaryExpr, ExprData],
	ExprAssign:        decodeAs[AssignExpr, ExprData],
	ExprTernary:       decodeAs[TernaryExpr, ExprData],
	ExprCast:          decodeAs[CastExpr, ExprData],
	ExprAsCast:        decodeAs[AsExpr, ExprData],
	ExprGroup:         decodeAs[GroupExpr, ExprData],
	ExprLambda:        decodeAs[LambdaExpr, ExprData],
	ExprNew:           decodeAs[NewExpr, ExprData],
	ExprAnonObject:    decodeAs[AnonObjectExpr, ExprData],
	ExprTuple:         decodeAs[TupleExpr, ExprData],
	ExprArrayNew:      decodeAs[ArrayNewExpr, ExprData],
	ExprInit:          decodeAs[InitExpr, ExprData],
	ExprImplicitIndex: decodeAs[ImplicitIndexExpr, ExprData],
	ExprIs:            decodeAs[IsExpr, ExprData],
	ExprQuery:         decodeAs[QueryExpr, ExprData],
	ExprDefault:       decodeAs[DefaultExpr, ExprData],
	ExprThrow:         decodeAs[ThrowExpr, ExprData],
	ExprDecl:          decodeAs[DeclExpr, ExprData],
	ExprRange:         decodeAs[RangeExpr, ExprData],
}

var stmtDecoders = map[StmtKind]func(*msgpack.Decoder) (StmtData, error){
	StmtBlock:     decodeAs[BlockStmt, StmtData],
	StmtExpr:      decodeAs[ExprStmt, StmtData],
	StmtLocal:     decodeAs[LocalStmt, StmtData],
	StmtIf:        decodeAs[IfStmt, StmtData],
	StmtWhile:     decodeAs[WhileStmt, StmtData],
	StmtForeach:   decodeAs[ForeachStmt, StmtData],
	StmtReturn:    decodeAs[ReturnStmt, StmtData],
	StmtThrow:     decodeAs[ThrowStmt, StmtData],
	StmtBreak:     decodeAs[BreakStmt, StmtData],
	StmtContinue:  decodeAs[ContinueStmt, StmtData],
	StmtSwitch:    decodeAs[SwitchStmt, StmtData],
	StmtLocalFunc: decodeAs[LocalFuncStmt, StmtData],
	StmtEmpty:     decodeAs[EmptyStmt, StmtData],
}

var declDecoders = map[DeclKind]func(*msgpack.Decoder) (DeclData, error){
	DeclUnit:      decodeAs[UnitDecl, DeclData],
	DeclUsing:     decodeAs[UsingDecl, DeclData],
	DeclNamespace: decodeAs[NamespaceDecl, DeclData],
	DeclType:      decodeAs[TypeDecl, DeclData],
	DeclField:     decodeAs[FieldDecl, DeclData],
	DeclProperty:  decodeAs[PropertyDecl, DeclData],
	DeclMethod:    decodeAs[MethodDecl, DeclData],
}

var patternDecoders = map[PatternKind]func(*msgpack.Decoder) (PatternData, error){
	PatternDiscard:    decodeAs[DiscardPattern, PatternData],
	PatternConst:      decodeAs[ConstPattern, PatternData],
	PatternType:       decodeAs[TypePattern, PatternData],
	PatternDecl:       decodeAs[DeclPattern, PatternData],
	PatternRelational: decodeAs[RelationalPattern, PatternData],
	PatternNot:        decodeAs[NotPattern, PatternData],
	PatternBinary:     decodeAs[BinaryPattern, PatternData],
	PatternList:       decodeAs[ListPattern, PatternData],
	PatternSlice:      decodeAs[SlicePattern, PatternData],
	PatternGroup:      decodeAs[GroupPattern, PatternData],
}

func encodeHeader(enc *msgpack.Encoder, kind uint8, sp source.Span, lead, trail []token.Trivia, origin uint32, data any) error {
	if err := enc.EncodeArrayLen(headerLen); err != nil {
		return err
	}
	if err := enc.EncodeUint8(kind); err != nil {
		return err
	}
	if err := enc.Encode(sp); err != nil {
		return err
	}
	if err := enc.Encode(lead); err != nil {
		return err
	}
	if err := enc.Encode(trail); err != nil {
		return err
	}
	if err := enc.EncodeUint32(origin); err != nil {
		return err
	}
	return enc.Encode(data)
}

type header struct {
	kind   uint8
	span   source.Span
	lead   []token.Trivia
	trail  []token.Trivia
	origin uint32
}

// decodeHeader reads everything but the payload, which is left on the stream.
func decodeHeader(dec *msgpack.Decoder) (header, error) {
	var h header
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return h, err
	}
	if n != headerLen {
		return h, fmt.Errorf("ast: node header has %d fields, want %d", n, headerLen)
	}
	if h.kind, err = dec.DecodeUint8(); err != nil {
		return h, err
	}
	if err = dec.Decode(&h.span); err != nil {
		return h, err
	}
	if err = dec.Decode(&h.lead); err != nil {
		return h, err
	}
	if err = dec.Decode(&h.trail); err != nil {
		return h, err
	}
	h.origin, err = dec.DecodeUint32()
	return h, err
}

func decodePayload[K ~uint8, D any](dec *msgpack.Decoder, table map[K]func(*msgpack.Decoder) (D, error), kind K) (D, error) {
	fn, ok := table[kind]
	if !ok {
		var zero D
		return zero, dec.Skip()
	}
	return fn(dec)
}

func (e Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeHeader(enc, uint8(e.Kind), e.Span, e.Lead, e.Trail, uint32(e.Origin), e.Data)
}

func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	h, err := decodeHeader(dec)
	if err != nil {
		return err
	}
	data, err := decodePayload(dec, exprDecoders, ExprKind(h.kind))
	if err != nil {
		return fmt.Errorf("ast: decode %s expr: %w", ExprKind(h.kind), err)
	}
	*e = Expr{Kind: ExprKind(h.kind), Span: h.span, Lead: h.lead, Trail: h.trail, Origin: ExprID(h.origin), Data: data}
	return nil
}

func (s Stmt) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeHeader(enc, uint8(s.Kind), s.Span, s.Lead, s.Trail, uint32(s.Origin), s.Data)
}

func (s *Stmt) DecodeMsgpack(dec *msgpack.Decoder) error {
	h, err := decodeHeader(dec)
	if err != nil {
		return err
	}
	data, err := decodePayload(dec, stmtDecoders, StmtKind(h.kind))
	if err != nil {
		return fmt.Errorf("ast: decode %s stmt: %w", StmtKind(h.kind), err)
	}
	*s = Stmt{Kind: StmtKind(h.kind), Span: h.span, Lead: h.lead, Trail: h.trail, Origin: StmtID(h.origin), Data: data}
	return nil
}

func (d Decl) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeHeader(enc, uint8(d.Kind), d.Span, d.Lead, d.Trail, uint32(d.Origin), d.Data)
}

func (d *Decl) DecodeMsgpack(dec *msgpack.Decoder) error {
	h, err := decodeHeader(dec)
	if err != nil {
		return err
	}
	data, err := decodePayload(dec, declDecoders, DeclKind(h.kind))
	if err != nil {
		return fmt.Errorf("ast: decode %s decl: %w", DeclKind(h.kind), err)
	}
	*d = Decl{Kind: DeclKind(h.kind), Span: h.span, Lead: h.lead, Trail: h.trail, Origin: DeclID(h.origin), Data: data}
	return nil
}

func (p Pattern) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeHeader(enc, uint8(p.Kind), p.Span, p.Lead, p.Trail, uint32(p.Origin), p.Data)
}

func (p *Pattern) DecodeMsgpack(dec *msgpack.Decoder) error {
	h, err := decodeHeader(dec)
	if err != nil {
		return err
	}
	data, err := decodePayload(dec, patternDecoders, PatternKind(h.kind))
	if err != nil {
		return fmt.Errorf("ast: decode pattern: %w", err)
	}
	*p = Pattern{Kind: PatternKind(h.kind), Span: h.span, Lead: h.lead, Trail: h.trail, Origin: PatternID(h.origin), Data: data}
	return nil
}
