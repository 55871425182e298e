package cutlang

// Environment is the single mutable global binding table. There are no
// nested scopes: every binding is process-duration state belonging to one
// Interpreter.
type Environment struct {
	store map[string]Value
}

func NewEnvironment() Environment {
	return Environment{
		store: map[string]Value{},
	}
}

// Define inserts or overwrites a binding.
func (self *Environment) Define(name string, value Value) {
	self.store[name] = value
}

// Set requires the binding to already exist.
func (self *Environment) Set(name string, value Value) error {
	if _, ok := self.store[name]; !ok {
		return newRuntimeError(ErrSetBeforeDefine, "cannot set %s before definition", name)
	}
	self.store[name] = value
	return nil
}

func (self *Environment) Get(name string) (Value, error) {
	value, ok := self.store[name]
	if !ok {
		return nil, newRuntimeError(ErrUndefined, "identifier %s is not defined", name)
	}
	return value, nil
}
