// Package ir defines the class-based intermediate representation this
// engine's analyses consume: classes, fields, methods, a statement-level
// CFG, and the expression/statement sum types the evaluator and PTA
// dispatch over. Building this IR from source is out of scope (spec §1) —
// this package is the narrow "IR provider" interface plus a concrete model
// real enough to drive the algorithms in internal/icp, internal/cha,
// internal/pta, internal/icpi, and internal/taint.
package ir

import "fmt"

// Type is an IR type. The concrete cases below are the only ones the
// engine needs to reason about: primitive integer-ish types (the only ones
// that can hold an abstract CP value), class types, and array types.
type Type interface {
	String() string
	isType()
}

type Primitive uint8

const (
	Int Primitive = iota
	Byte
	Short
	Char
	Boolean
	Long  // unmodeled: always NAC, see SPEC_FULL.md open questions
	Float // unmodeled: always NAC
)

func (p Primitive) String() string {
	switch p {
	case Int:
		return "int"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Char:
		return "char"
	case Boolean:
		return "boolean"
	case Long:
		return "long"
	case Float:
		return "float"
	default:
		return "?"
	}
}
func (Primitive) isType() {}

// CanHoldInt reports whether a variable of type t is tracked by constant
// propagation (spec §4.2, canHoldInt).
func CanHoldInt(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	switch p {
	case Int, Byte, Short, Char, Boolean:
		return true
	default:
		return false
	}
}

// ClassType refers to a declared class or interface by name.
type ClassType struct {
	Class *Class
}

func (c ClassType) String() string { return c.Class.Name }
func (ClassType) isType()          {}

// ArrayType is a single-dimension array of Elem (multi-dimensional arrays
// are just arrays of arrays, unmodeled beyond what the spec needs: array
// element access is flow-insensitive on indices regardless of depth).
type ArrayType struct {
	Elem Type
}

func (a ArrayType) String() string { return fmt.Sprintf("%s[]", a.Elem) }
func (ArrayType) isType()          {}
