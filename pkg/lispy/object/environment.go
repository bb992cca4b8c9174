package object

// Environment implements the lexically nested scope chain of spec.md
// §3.2/§4.3, grounded on the Environment{store, outer} shape of
// pkg/parsley/evaluator/evaluator.go's Environment/NewEnclosedEnvironment.
// It lives in the object package (rather than a separate one) because a
// Function value holds a direct *Environment reference to its defining
// frame — putting Environment anywhere else would require an interface
// indirection for no benefit, the same tradeoff Parsley makes by keeping
// both in its evaluator package.
type Environment struct {
	store map[string]Value
	outer *Environment

	// Filename threads through NewEnclosed the way Parsley's
	// Environment.Filename does, so module-relative path resolution
	// (spec.md §4.8) works at any scope depth without re-threading it
	// through every call site.
	Filename string

	// Exports is non-nil only for a module's root frame (the scope
	// created by the loader to evaluate a module's top-level forms). The
	// `export` special form records names into it; spec.md §4.8 says
	// export "does not mutate bindings", only this set.
	Exports map[string]bool
}

// NewEnvironment creates a fresh top-level Environment (no outer scope).
// Used for the global scope and for each module's isolated evaluation
// scope (spec.md §4.8).
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosed creates a child scope of outer, used for function calls,
// `let`, `doseq` iterations, and `catch` clauses (spec.md §3.2).
func NewEnclosed(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.Filename = outer.Filename
	}
	return env
}

// Get implements lookup: search the current frame, then the outer chain.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define inserts or replaces name in the CURRENT frame only (spec.md
// §3.2/§4.3: "define always creates or overwrites the binding in the
// current scope").
func (e *Environment) Define(name string, v Value) Value {
	e.store[name] = v
	return v
}

// Outer returns the enclosing scope, or nil at the global scope.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Global walks to the outermost (global) scope.
func (e *Environment) Global() *Environment {
	env := e
	for env.outer != nil {
		env = env.outer
	}
	return env
}

// Names returns every name bound directly in this frame (not its outer
// chain), used by the REPL's `:env` command to list user-defined bindings
// without dumping the whole builtin registry alongside them.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	return names
}
