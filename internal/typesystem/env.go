package typesystem

// Env is the checker-phase environment: a flat identifier → Type map.
// It is deliberately NOT a parent-chain structure — §3.4 requires
// snapshot-at-scope-entry (deep-copy at the mapping level) semantics,
// which a flat map's Clone gives directly.
type Env struct {
	vars map[string]Type
}

// NewEnv constructs an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Type)}
}

// Clone returns a snapshot whose later mutations do not affect the
// original — the scope-entry copy every Let/call/branch needs.
func (e *Env) Clone() *Env {
	cp := make(map[string]Type, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &Env{vars: cp}
}

// AddName removes any existing binding for name before inserting the
// new one — "last insert wins" shadowing (§3.4).
func (e *Env) AddName(name string, t Type) {
	delete(e.vars, name)
	e.vars[name] = t
}

// GetName looks up name by exact string match.
func (e *Env) GetName(name string) (Type, bool) {
	t, ok := e.vars[name]
	return t, ok
}

// Remove deletes a binding, used to apply the function/self-reference
// cycle break before capturing an environment (§3.5).
func (e *Env) Remove(name string) {
	delete(e.vars, name)
}

// Names returns every bound identifier in unspecified order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	return names
}
