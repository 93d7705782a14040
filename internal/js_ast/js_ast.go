package js_ast

import (
	"github.com/esmd/esm-compiler/internal/logger"
)

// Every module is parsed into a separate AST. Identifiers carry their source
// names directly; there is no symbol table. Identifier collisions introduced
// by tree rewriting are resolved by the per-compilation hygiene scope in the
// transformer, so passes are free to mutate the tree in place. Each tree is
// owned by exactly one compilation.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsUnaryUpdate() bool {
	return op >= UnOpPreDec && op <= UnOpPostInc
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

// If you add a new operator, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type OpTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []OpTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false},
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

// LocName is an identifier together with where it appeared.
type LocName struct {
	Loc  logger.Loc
	Name string
}

// Path is a module specifier string literal in an import or export
// statement. The resolver stage rewrites Text in place.
type Path struct {
	Loc  logger.Loc
	Text string
}

// Comment lives in a side-channel store, not in the tree. Text includes the
// "//" or "/* */" delimiters.
type Comment struct {
	Loc  logger.Loc
	Text string
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
)

// Property is shared between object literals, class bodies, and JSX
// attribute lists (where Key is always a string and spreads use
// PropertySpread).
type Property struct {
	TSDecorators []Expr
	Key          Expr
	ValueOrNil   Expr
	Kind         PropertyKind
	IsComputed   bool
	IsMethod     bool
	IsStatic     bool
	IsShorthand  bool

	// TypeScript-only markers, consumed by the strip stage
	WasTSDeclare  bool
	WasTSAbstract bool
}

type Arg struct {
	TSDecorators []Expr
	Binding      Binding
	DefaultOrNil Expr

	// "constructor(public x = 1) {}" declares a property as well as a
	// parameter; the strip stage expands it
	IsTypeScriptCtorField bool
}

type Fn struct {
	Name       *LocName
	Args       []Arg
	Body       FnBody
	HasRestArg bool

	IsAsync     bool
	IsGenerator bool
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Class struct {
	TSDecorators []Expr
	Name         *LocName
	ExtendsOrNil Expr
	BodyLoc      logger.Loc
	Properties   []Property
}

type ArrayBinding struct {
	Binding      Binding
	DefaultOrNil Expr
}

type PropertyBinding struct {
	Key          Expr
	Value        Binding
	DefaultOrNil Expr
	IsComputed   bool
	IsSpread     bool
}

type Binding struct {
	Loc  logger.Loc
	Data B
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

type BMissing struct{}

type BIdentifier struct{ Name string }

type BArray struct {
	Items     []ArrayBinding
	HasSpread bool
}

type BObject struct {
	Properties []PropertyBinding
}

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}
func (*BArray) isBinding()      {}
func (*BObject) isBinding()     {}

type Expr struct {
	Loc  logger.Loc
	Data E
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

type EArray struct{ Items []Expr }

type EUnary struct {
	Op    OpCode
	Value Expr
}

type EBinary struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

type EBoolean struct{ Value bool }

type ESuper struct{}

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type ENew struct {
	Target Expr
	Args   []Expr
}

type ENewTarget struct{}

type EImportMeta struct{}

type ECall struct {
	Target        Expr
	Args          []Expr
	OptionalChain bool
}

type EDot struct {
	Target        Expr
	Name          string
	NameLoc       logger.Loc
	OptionalChain bool
}

type EIndex struct {
	Target        Expr
	Index         Expr
	OptionalChain bool
}

type EArrow struct {
	Args       []Arg
	Body       FnBody
	HasRestArg bool
	IsAsync    bool

	// "() => 1" instead of "() => { return 1 }"
	PreferExpr bool
}

type EFunction struct{ Fn Fn }

type EClass struct{ Class Class }

type EIdentifier struct{ Name string }

type EPrivateIdentifier struct{ Name string }

// EJSXElement is erased by the JSX stage before printing; the printer
// rejects it.
type EJSXElement struct {
	// Nil for fragments
	TagOrNil Expr

	// String keys in declared order; spread attributes use PropertySpread
	Properties []Property
	Children   []Expr
	CloseLoc   logger.Loc
}

type EMissing struct{}

type ENumber struct{ Value float64 }

type EBigInt struct{ Value string }

type EObject struct {
	Properties   []Property
	IsSingleLine bool
}

type ESpread struct{ Value Expr }

// EString stores the decoded value; the printer re-quotes and re-escapes.
type EString struct {
	Value string

	// Preserved so emitted specifier literals keep their source text exactly
	// when the resolver didn't touch them
	PreferTemplate bool
}

type TemplatePart struct {
	Value      Expr
	TailLoc    logger.Loc
	TailCooked string
	TailRaw    string
}

type ETemplate struct {
	TagOrNil   Expr
	HeadLoc    logger.Loc
	HeadCooked string
	HeadRaw    string
	Parts      []TemplatePart
}

type ERegExp struct{ Value string }

type EAwait struct{ Value Expr }

type EYield struct {
	ValueOrNil Expr
	IsStar     bool
}

type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

// EImport is a dynamic "import(...)" expression. The specifier argument
// lives in Expr; OptionsOrNil carries the second argument when present.
type EImport struct {
	Expr         Expr
	OptionsOrNil Expr
}

func (*EArray) isExpr()             {}
func (*EUnary) isExpr()             {}
func (*EBinary) isExpr()            {}
func (*EBoolean) isExpr()           {}
func (*ESuper) isExpr()             {}
func (*ENull) isExpr()              {}
func (*EUndefined) isExpr()         {}
func (*EThis) isExpr()              {}
func (*ENew) isExpr()               {}
func (*ENewTarget) isExpr()         {}
func (*EImportMeta) isExpr()        {}
func (*ECall) isExpr()              {}
func (*EDot) isExpr()               {}
func (*EIndex) isExpr()             {}
func (*EArrow) isExpr()             {}
func (*EFunction) isExpr()          {}
func (*EClass) isExpr()             {}
func (*EIdentifier) isExpr()        {}
func (*EPrivateIdentifier) isExpr() {}
func (*EJSXElement) isExpr()        {}
func (*EMissing) isExpr()           {}
func (*ENumber) isExpr()            {}
func (*EBigInt) isExpr()            {}
func (*EObject) isExpr()            {}
func (*ESpread) isExpr()            {}
func (*EString) isExpr()            {}
func (*ETemplate) isExpr()          {}
func (*ERegExp) isExpr()            {}
func (*EAwait) isExpr()             {}
func (*EYield) isExpr()             {}
func (*EIf) isExpr()                {}
func (*EImport) isExpr()            {}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

type SBlock struct{ Stmts []Stmt }

type SEmpty struct{}

// STypeScript is a type-only statement (interface, type alias, "declare")
// that the strip stage erases before printing.
type STypeScript struct{}

type SDebugger struct{}

type SDirective struct{ Value string }

type SExportClause struct{ Items []ClauseItem }

type SExportFrom struct {
	Items []ClauseItem
	Path  Path
}

type SExportDefault struct {
	Value ExprOrStmt // can be a function or class statement
}

type SExportStar struct {
	// Nil for "export * from", set for "export * as alias from"
	Alias *LocName
	Path  Path
}

type SExpr struct{ Value Expr }

type EnumValue struct {
	Loc        logger.Loc
	Name       string
	ValueOrNil Expr
}

type SEnum struct {
	Name     LocName
	Values   []EnumValue
	IsExport bool
	IsConst  bool
}

type SNamespace struct {
	Name     LocName
	Stmts    []Stmt
	IsExport bool
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SClass struct {
	Class    Class
	IsExport bool
}

type SLabel struct {
	Name LocName
	Stmt Stmt
}

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil *Stmt
}

type SFor struct {
	InitOrNil   *Stmt // nil, SLocal, or SExpr
	TestOrNil   Expr
	UpdateOrNil Expr
	Body        Stmt
}

type SForIn struct {
	Init  Stmt
	Value Expr
	Body  Stmt
}

type SForOf struct {
	IsAwait bool
	Init    Stmt
	Value   Expr
	Body    Stmt
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SWith struct {
	Value Expr
	Body  Stmt
}

type Catch struct {
	Loc          logger.Loc
	BindingOrNil *Binding
	Body         []Stmt
}

type Finally struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type STry struct {
	Body    []Stmt
	Catch   *Catch
	Finally *Finally
}

type Case struct {
	ValueOrNil Expr // nil for "default:"
	Body       []Stmt
}

type SSwitch struct {
	Test  Expr
	Cases []Case
}

type SImport struct {
	// All are optional: "import 'x'" has none of them
	DefaultName *LocName
	Items       *[]ClauseItem
	StarName    *LocName
	Path        Path

	// "import type { T } from 'x'": recorded and rewritten like any other
	// import, then erased by the strip stage
	IsTypeOnly bool
}

type SReturn struct{ ValueOrNil Expr }

type SThrow struct{ Value Expr }

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (kind LocalKind) String() string {
	switch kind {
	case LocalConst:
		return "const"
	case LocalLet:
		return "let"
	}
	return "var"
}

type SLocal struct {
	Decls    []Decl
	Kind     LocalKind
	IsExport bool
}

type SBreak struct{ Label *LocName }

type SContinue struct{ Label *LocName }

func (*SBlock) isStmt()         {}
func (*SEmpty) isStmt()         {}
func (*STypeScript) isStmt()    {}
func (*SDebugger) isStmt()      {}
func (*SDirective) isStmt()     {}
func (*SExportClause) isStmt()  {}
func (*SExportFrom) isStmt()    {}
func (*SExportDefault) isStmt() {}
func (*SExportStar) isStmt()    {}
func (*SExpr) isStmt()          {}
func (*SEnum) isStmt()          {}
func (*SNamespace) isStmt()     {}
func (*SFunction) isStmt()      {}
func (*SClass) isStmt()         {}
func (*SLabel) isStmt()         {}
func (*SIf) isStmt()            {}
func (*SFor) isStmt()           {}
func (*SForIn) isStmt()         {}
func (*SForOf) isStmt()         {}
func (*SDoWhile) isStmt()       {}
func (*SWhile) isStmt()         {}
func (*SWith) isStmt()          {}
func (*STry) isStmt()           {}
func (*SSwitch) isStmt()        {}
func (*SImport) isStmt()        {}
func (*SReturn) isStmt()        {}
func (*SThrow) isStmt()         {}
func (*SLocal) isStmt()         {}
func (*SBreak) isStmt()         {}
func (*SContinue) isStmt()      {}

type ClauseItem struct {
	// For imports, Alias is the name in the imported module and Name is the
	// local binding. For exports, Alias is the exported name and Name is the
	// local binding.
	Alias    string
	AliasLoc logger.Loc
	Name     LocName
}

type Decl struct {
	Binding    Binding
	ValueOrNil Expr
}

type ExprOrStmt struct {
	Expr *Expr
	Stmt *Stmt
}

func Assign(a Expr, b Expr) Expr {
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpAssign, Left: a, Right: b}}
}

func AssignStmt(a Expr, b Expr) Stmt {
	return Stmt{Loc: a.Loc, Data: &SExpr{Value: Assign(a, b)}}
}

func Ident(loc logger.Loc, name string) Expr {
	return Expr{Loc: loc, Data: &EIdentifier{Name: name}}
}

func String(loc logger.Loc, value string) Expr {
	return Expr{Loc: loc, Data: &EString{Value: value}}
}

func Number(loc logger.Loc, value float64) Expr {
	return Expr{Loc: loc, Data: &ENumber{Value: value}}
}

// DotOrIdent turns a dotted name like "React.createElement" into a member
// expression chain, or a plain identifier when there are no dots.
func DotOrIdent(loc logger.Loc, name string) Expr {
	expr := Expr{}
	for {
		dot := -1
		for i := 0; i < len(name); i++ {
			if name[i] == '.' {
				dot = i
				break
			}
		}
		if expr.Data == nil {
			if dot < 0 {
				return Ident(loc, name)
			}
			expr = Ident(loc, name[:dot])
		} else if dot < 0 {
			return Expr{Loc: loc, Data: &EDot{Target: expr, Name: name, NameLoc: loc}}
		} else {
			expr = Expr{Loc: loc, Data: &EDot{Target: expr, Name: name[:dot], NameLoc: loc}}
		}
		name = name[dot+1:]
	}
}
