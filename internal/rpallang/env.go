package rpallang

// file env.go implements the environment tree of spec.md 3: each
// environment holds a binding map and a parent pointer, rooted at E(0), the
// primitive environment. Lookup walks parents; an environment's bindings
// are never changed after its binding step at creation (spec.md 5). The
// only later change is the machine setting Removed when the environment is
// exited.

import "github.com/dewminawijekoon/rpal/internal/rpalerr"

// Env is one node of the environment tree.
type Env struct {
	Index    int
	Parent   *Env
	Bindings map[string]Value
	Removed  bool
}

// NewEnv allocates a fresh environment as a child of parent.
func NewEnv(index int, parent *Env) *Env {
	return &Env{Index: index, Parent: parent, Bindings: map[string]Value{}}
}

// Lookup chases the parent chain for name, returning a RuntimeError if no
// enclosing environment binds it.
func (e *Env) Lookup(name string) (Value, error) {
	for cur := e; cur != nil; cur = cur.Parent {
		if v, ok := cur.Bindings[name]; ok {
			return v, nil
		}
	}
	return Value{}, rpalerr.NewRuntime("unbound identifier %q", name)
}
