package ioc

import "github.com/calummacc/ioc/component"

// entry is one not-yet-scoped binding as seen by the validator: a key plus
// the provider that will eventually produce it.
type entry struct {
	key component.ComponentKey
	hk  string
	prov provider
}

// validator walks a binding set for the two structural defects that must be
// caught before a Context is ever handed back: a dependency with no
// matching binding, and a cycle in the Direct-dependency subgraph. Uses a
// three-color DFS rather than a plain visited set so a cycle's members can
// be reported, not just its existence.
type validator struct {
	byHash map[string]*entry
}

func newValidator(entries []*entry) *validator {
	byHash := make(map[string]*entry, len(entries))
	for _, e := range entries {
		byHash[e.hk] = e
	}
	return &validator{byHash: byHash}
}

// validate runs the missing-dependency check followed by cycle detection.
// Missing-dependency is checked first since a dangling reference makes a
// reported cycle through it meaningless.
func (v *validator) validate() error {
	for _, e := range v.byHash {
		for _, ref := range e.prov.dependencies() {
			if !ref.IsSupported() {
				continue
			}
			if _, ok := v.byHash[ref.Key.HashKey()]; !ok {
				return &component.DependencyNotFound{Component: e.key, Dependency: ref.Key}
			}
		}
	}
	return v.checkCycles()
}

const (
	white = 0
	gray  = 1
	black = 2
)

// checkCycles runs a DFS over the Direct-dependency subgraph only: an
// IndirectProvider edge is never followed, since a Provider[T] parameter
// defers construction past the point the holder itself is built and so
// cannot participate in a construction-time cycle.
func (v *validator) checkCycles() error {
	color := make(map[string]int, len(v.byHash))
	var path []component.ComponentKey

	var visit func(hk string) error
	visit = func(hk string) error {
		e := v.byHash[hk]
		color[hk] = gray
		path = append(path, e.key)
		for _, ref := range e.prov.dependencies() {
			if !ref.IsSupported() || ref.IsIndirect() {
				continue
			}
			depHash := ref.Key.HashKey()
			switch color[depHash] {
			case white:
				if err := visit(depHash); err != nil {
					return err
				}
			case gray:
				return &component.CyclicDependenciesFound{Components: cycleFrom(path, ref.Key)}
			}
		}
		path = path[:len(path)-1]
		color[hk] = black
		return nil
	}

	for hk := range v.byHash {
		if color[hk] == white {
			if err := visit(hk); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleFrom trims path down to the segment starting at root (the key
// closed back on), so each key on the cycle appears exactly once: a cycle
// A -> B -> A yields [A, B].
func cycleFrom(path []component.ComponentKey, root component.ComponentKey) []component.ComponentKey {
	for i, k := range path {
		if k.Equal(root) {
			return append([]component.ComponentKey{}, path[i:]...)
		}
	}
	return path
}
