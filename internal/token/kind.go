package token

// Kind enumerates operators and punctuation that appear inside expression nodes.
type Kind uint8

const (
	// Invalid indicates a missing operator.
	Invalid Kind = iota

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Bang       // !
	Tilde      // ~
	Hat        // ^ (index from end)
	PlusPlus   // ++
	MinusMinus // --
	Amp        // &
	Pipe       // |
	Caret      // ^
	Shl        // <<
	Shr        // >>

	EqEq             // ==
	BangEq           // !=
	Lt               // <
	LtEq             // <=
	Gt               // >
	GtEq             // >=
	AndAnd           // &&
	OrOr             // ||
	QuestionQuestion // ??

	Assign                 // =
	PlusAssign             // +=
	MinusAssign            // -=
	StarAssign             // *=
	SlashAssign            // /=
	PercentAssign          // %=
	AmpAssign              // &=
	PipeAssign             // |=
	CaretAssign            // ^=
	QuestionQuestionAssign // ??=

	KwAnd // and (pattern combinator)
	KwOr  // or (pattern combinator)
	KwNot // not (pattern combinator)

	KwAwait // await (prefix unary)
)

var kindText = [...]string{
	Invalid:                "<invalid>",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	Slash:                  "/",
	Percent:                "%",
	Bang:                   "!",
	Tilde:                  "~",
	Hat:                    "^",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Shl:                    "<<",
	Shr:                    ">>",
	EqEq:                   "==",
	BangEq:                 "!=",
	Lt:                     "<",
	LtEq:                   "<=",
	Gt:                     ">",
	GtEq:                   ">=",
	AndAnd:                 "&&",
	OrOr:                   "||",
	QuestionQuestion:       "??",
	Assign:                 "=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	QuestionQuestionAssign: "??=",
	KwAnd:                  "and",
	KwOr:                   "or",
	KwNot:                  "not",
	KwAwait:                "await",
}

// String returns the source spelling of the operator.
func (k Kind) String() string {
	if int(k) < len(kindText) && kindText[k] != "" {
		return kindText[k]
	}
	return kindText[Invalid]
}

// IsAssign reports whether the kind is a simple or compound assignment operator.
func (k Kind) IsAssign() bool {
	return k >= Assign && k <= QuestionQuestionAssign
}

// IsWord reports whether the operator is spelled as a keyword and needs a
// space before its operand.
func (k Kind) IsWord() bool {
	return k >= KwAnd && k <= KwAwait
}

// IsShortCircuit reports whether the right operand is evaluated conditionally.
func (k Kind) IsShortCircuit() bool {
	switch k {
	case AndAnd, OrOr, QuestionQuestion, QuestionQuestionAssign:
		return true
	default:
		return false
	}
}

// IsEquality reports whether the operator is == or !=.
func (k Kind) IsEquality() bool {
	return k == EqEq || k == BangEq
}

// OperatorMetadataName returns the metadata name of a user-declarable operator,
// e.g. "op_Inequality" for !=. Unknown operators yield "".
func (k Kind) OperatorMetadataName() string {
	switch k {
	case EqEq:
		return "op_Equality"
	case BangEq:
		return "op_Inequality"
	case Plus:
		return "op_Addition"
	case Minus:
		return "op_Subtraction"
	case Star:
		return "op_Multiply"
	case Slash:
		return "op_Division"
	case Lt:
		return "op_LessThan"
	case Gt:
		return "op_GreaterThan"
	case LtEq:
		return "op_LessThanOrEqual"
	case GtEq:
		return "op_GreaterThanOrEqual"
	default:
		return ""
	}
}
