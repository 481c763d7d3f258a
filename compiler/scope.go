package compiler

import (
	"fmt"
	"sort"
)

// scope binds variable names to cells at one nesting level. Lookups walk
// outward through the parent chain, so inner bindings shadow outer ones.
type scope struct {
	vars   map[string]int // variable name → cell
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]int), parent: parent}
}

// lookup finds the innermost binding of name.
func (s *scope) lookup(name string) (int, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if cell, ok := sc.vars[name]; ok {
			return cell, true
		}
	}
	return -1, false
}

// declare binds name at this level. Redeclaring a name bound at the same
// level fails; shadowing an outer binding is allowed.
func (s *scope) declare(name string, cell int) error {
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
	}
	s.vars[name] = cell
	return nil
}

// remove deletes the innermost binding of name.
func (s *scope) remove(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			delete(sc.vars, name)
			return true
		}
	}
	return false
}

// visible returns every visible binding, inner bindings winning.
func (s *scope) visible() map[string]int {
	out := make(map[string]int)
	for sc := s; sc != nil; sc = sc.parent {
		for name, cell := range sc.vars {
			if _, ok := out[name]; !ok {
				out[name] = cell
			}
		}
	}
	return out
}

// Binding is a visible variable and the cell holding it.
type Binding struct {
	Name string
	Cell int
}

// sortedBindings returns the visible bindings ordered by cell.
func (s *scope) sortedBindings() []Binding {
	var out []Binding
	for name, cell := range s.visible() {
		out = append(out, Binding{Name: name, Cell: cell})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell != out[j].Cell {
			return out[i].Cell < out[j].Cell
		}
		return out[i].Name < out[j].Name
	})
	return out
}
