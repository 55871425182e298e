package cutlang

import (
	"fmt"
	"io"
	"os"
)

// RuntimeError kinds, one per fault class.
const (
	ErrUndefined       = "undefined"
	ErrSpecialForm     = "special form"
	ErrSetBeforeDefine = "set before define"
	ErrNotProcedure    = "not a procedure"
	ErrArity           = "arity"
	ErrWrongType       = "wrong type"
	ErrDomain          = "domain"
	ErrDescriptor      = "descriptor"
)

type RuntimeError struct {
	Kind string
	why  string
}

func (self RuntimeError) Error() string {
	return self.why
}

func newRuntimeError(kind string, format string, args ...any) RuntimeError {
	return RuntimeError{kind, fmt.Sprintf(format, args...)}
}

// ExitError signals an explicit exit call. It is a host-fatal request, not a
// recoverable language error.
type ExitError struct {
	Code int
}

func (self ExitError) Error() string {
	return fmt.Sprintf("exit %d", self.Code)
}

// Interpreter owns the global environment and the edit-method bridge for one
// program run. Concurrent use requires one Interpreter per goroutine; there
// is no shared state between instances.
type Interpreter struct {
	env    Environment
	bridge *EditBridge // optional
	stdout io.Writer
}

func NewInterpreter(bridge *EditBridge) *Interpreter {
	self := &Interpreter{
		env:    NewEnvironment(),
		bridge: bridge,
		stdout: os.Stdout,
	}
	self.seedEnvironment()
	return self
}

// SetOutput redirects display output, which defaults to stdout.
func (self *Interpreter) SetOutput(w io.Writer) {
	self.stdout = w
}

// Define pre-binds an identifier before evaluation. The host uses this to
// bind timebase so seconds literals resolve.
func (self *Interpreter) Define(name string, value Value) {
	self.env.Define(name, value)
}

// Run lexes, parses, and evaluates one program, returning the ordered
// results of its top-level expressions. The first error anywhere aborts the
// whole pass.
func (self *Interpreter) Run(source string) ([]Value, error) {
	lexer := NewLexer(source)
	parser, err := NewParser(&lexer)
	if err != nil {
		return nil, err
	}
	program, err := parser.ParseProgram()
	if err != nil {
		return nil, err
	}
	return program.Eval(self)
}

func (self *Compound) Eval(interp *Interpreter) ([]Value, error) {
	results := make([]Value, 0, len(self.Children))
	for _, child := range self.Children {
		result, err := child.Eval(interp)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (self NumLit) Eval(interp *Interpreter) (Value, error) {
	return self.Value, nil
}

func (self StrLit) Eval(interp *Interpreter) (Value, error) {
	return NewString(self.Value), nil
}

func (self BoolLit) Eval(interp *Interpreter) (Value, error) {
	return NewBoolean(self.Value), nil
}

func (self CharLit) Eval(interp *Interpreter) (Value, error) {
	return NewChar(self.Value), nil
}

func (self Var) Eval(interp *Interpreter) (Value, error) {
	return interp.env.Get(self.Name)
}

func (self ArrLit) Eval(interp *Interpreter) (Value, error) {
	if interp.bridge == nil {
		return nil, newRuntimeError(ErrDescriptor, "no media loaded, cannot evaluate %s", self.Descriptor)
	}
	return interp.bridge.Evaluate(self.Descriptor)
}

func (self ManyOp) Eval(interp *Interpreter) (Value, error) {
	if head, ok := self.Head.(Var); ok {
		switch head.Name {
		case "if":
			return interp.evalIf(self.Operands)
		case "when":
			return interp.evalWhen(self.Operands)
		case "define":
			return interp.evalBinding(head.Name, self.Operands)
		case "set!":
			return interp.evalBinding(head.Name, self.Operands)
		}
	}

	head, err := self.Head.Eval(interp)
	if err != nil {
		return nil, err
	}
	proc, ok := head.(*Procedure)
	if !ok {
		return nil, newRuntimeError(ErrNotProcedure, "%s is not a procedure", head.String())
	}

	args := make([]Value, 0, len(self.Operands))
	for _, operand := range self.Operands {
		arg, err := operand.Eval(interp)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return interp.apply(proc, args)
}

// evalCondition enforces the boolean-only condition rule shared by if and
// when: there is no truthy/falsy coercion.
func (self *Interpreter) evalCondition(form string, node Node) (bool, error) {
	condition, err := node.Eval(self)
	if err != nil {
		return false, err
	}
	boolean, ok := condition.(*Boolean)
	if !ok {
		return false, newRuntimeError(ErrWrongType,
			"%s expected a boolean condition, got %s", form, condition.Typename())
	}
	return boolean.value, nil
}

func (self *Interpreter) evalIf(operands []Node) (Value, error) {
	if len(operands) != 3 {
		return nil, newRuntimeError(ErrSpecialForm, "if expects 3 expressions, got %d", len(operands))
	}
	condition, err := self.evalCondition("if", operands[0])
	if err != nil {
		return nil, err
	}
	// The untaken branch is never evaluated.
	if condition {
		return operands[1].Eval(self)
	}
	return operands[2].Eval(self)
}

func (self *Interpreter) evalWhen(operands []Node) (Value, error) {
	if len(operands) != 2 {
		return nil, newRuntimeError(ErrSpecialForm, "when expects 2 expressions, got %d", len(operands))
	}
	condition, err := self.evalCondition("when", operands[0])
	if err != nil {
		return nil, err
	}
	if !condition {
		return TheVoid, nil
	}
	return operands[1].Eval(self)
}

func (self *Interpreter) evalBinding(form string, operands []Node) (Value, error) {
	if len(operands) != 2 {
		return nil, newRuntimeError(ErrSpecialForm, "%s expects 2 expressions, got %d", form, len(operands))
	}
	target, ok := operands[0].(Var)
	if !ok {
		return nil, newRuntimeError(ErrWrongType, "%s expected an identifier to bind", form)
	}
	value, err := operands[1].Eval(self)
	if err != nil {
		return nil, err
	}
	if form == "set!" {
		if err := self.env.Set(target.Name, value); err != nil {
			return nil, err
		}
	} else {
		self.env.Define(target.Name, value)
	}
	return TheVoid, nil
}

func arityString(proc *Procedure) string {
	if proc.maxArgs < 0 {
		return fmt.Sprintf("at least %d argument(s)", proc.minArgs)
	}
	if proc.minArgs == proc.maxArgs {
		return fmt.Sprintf("%d argument(s)", proc.minArgs)
	}
	return fmt.Sprintf("between %d and %d arguments", proc.minArgs, proc.maxArgs)
}

// apply validates the argument count against the procedure's arity range,
// then each argument against the contract at its position. The last declared
// contract applies to every later position.
func (self *Interpreter) apply(proc *Procedure, args []Value) (Value, error) {
	if len(args) < proc.minArgs || (proc.maxArgs >= 0 && len(args) > proc.maxArgs) {
		return nil, newRuntimeError(ErrArity,
			"%s expects %s, got %d", proc.name, arityString(proc), len(args))
	}
	if len(proc.contracts) != 0 {
		for i, arg := range args {
			contract := proc.contracts[min(i, len(proc.contracts)-1)]
			if !contract.check(arg) {
				return nil, newRuntimeError(ErrWrongType,
					"%s expected %s, got %s", proc.name, contract.name, arg.Typename())
			}
		}
	}
	return proc.fn(args)
}
