package cutlang

// Node is one expression of the parsed program. Nodes are immutable once
// built and owned by the Compound root for the duration of one evaluation.
type Node interface {
	Eval(*Interpreter) (Value, error)
}

// Compound is the ordered sequence of a program's top-level expressions.
type Compound struct {
	Children []Node
}

// ManyOp is an operator expression: a head sub-expression plus zero or more
// operand sub-expressions.
type ManyOp struct {
	Head     Node
	Operands []Node
}

// Var is an identifier reference.
type Var struct {
	Name string
}

type NumLit struct {
	Value Value
}

type StrLit struct {
	Value string
}

type BoolLit struct {
	Value bool
}

type CharLit struct {
	Value rune
}

// ArrLit is an edit-method descriptor, e.g. audio:threshold=0.04, deferred
// to evaluation time.
type ArrLit struct {
	Descriptor string
}
