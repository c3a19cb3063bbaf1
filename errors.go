// Copyright 2024 The Aurac Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aurac holds the error taxonomy shared by every subpackage of the
// compiler core (ir, target, managed, typemapper, trampoline) plus the
// fail/recover convention used to turn an internal invariant violation into
// a diagnostic instead of a crashed process.
package aurac

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an Error the way spec.md §7 enumerates error
// categories: malformed input, an unsupported request, and a fatal,
// compiler-bug-grade invariant violation.
type ErrorKind int

const (
	// MalformedDescriptor means a class-file type or method descriptor did
	// not match the grammar.
	MalformedDescriptor ErrorKind = iota
	// UnsupportedType means a managed type has no IR mapping (e.g. an
	// unresolved reference type with no known layout).
	UnsupportedType
	// UnsupportedTarget means a target triple is not one the layout engine
	// knows how to compute sizes and alignments for.
	UnsupportedTarget
	// TrampolineMisuse means a trampoline was constructed or queried with a
	// combination of fields its kind forbids (e.g. a field name on an
	// Invoke).
	TrampolineMisuse
	// Invariant means an internal precondition was violated: a compiler
	// bug, not a malformed input. Callers should treat this as fatal to the
	// current compilation unit, not to the process.
	Invariant
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedDescriptor:
		return "malformed descriptor"
	case UnsupportedType:
		return "unsupported type"
	case UnsupportedTarget:
		return "unsupported target"
	case TrampolineMisuse:
		return "trampoline misuse"
	case Invariant:
		return "internal invariant violation"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is the structured error type returned by every exported operation in
// this module. It always carries a Kind and, where the failure can be
// attributed to one, the internal name of the offending class.
type Error struct {
	Kind  ErrorKind
	Class string
	cause error
}

func (e *Error) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Class, e.cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind, optionally attributed to class,
// wrapping cause.
func New(kind ErrorKind, class string, cause error) *Error {
	return &Error{Kind: kind, Class: class, cause: cause}
}

// Newf is New with the cause built from a format string.
func Newf(kind ErrorKind, class, format string, args ...interface{}) *Error {
	return New(kind, class, fmt.Errorf(format, args...))
}

// Is reports whether err is an *Error of the given kind, looking through any
// wrapping via errors.As.
func Is(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Fail is the panic side of the fail/recover convention
// mirrored from gapil/compiler's fail()/augmentPanics() and
// core/codegen/builder's buildFailure: a deep helper that has detected an
// invariant violation panics with a *Error{Kind: Invariant} rather than
// threading an error return through every call in the stack, and the public
// entry point recovers it with Guard.
func Fail(format string, args ...interface{}) {
	panic(&Error{Kind: Invariant, cause: fmt.Errorf(format, args...)})
}

// FailClass is Fail, attributing the invariant violation to class.
func FailClass(class, format string, args ...interface{}) {
	panic(&Error{Kind: Invariant, Class: class, cause: fmt.Errorf(format, args...)})
}

// FailKind is Fail/FailClass generalized to an explicit kind, for the rare
// deep helper (trampoline's field validation is the one user today) whose
// panic should surface as something other than Invariant once a Guard
// recovers it - a caller-misuse error, not a compiler-bug-grade one.
func FailKind(kind ErrorKind, class, format string, args ...interface{}) {
	panic(&Error{Kind: kind, Class: class, cause: fmt.Errorf(format, args...)})
}

// Guard is deferred at a public API boundary to convert any panic into an
// *Error assigned to *errp, leaving a clean error return instead of a
// crashed process. A panic with an *Error (raised by Fail/FailClass, or
// surfaced unchanged from a nested Guard) is passed through as-is; any other
// panic value is wrapped as an Invariant error.
func Guard(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*errp = e
		return
	}
	if e, ok := r.(error); ok {
		*errp = &Error{Kind: Invariant, cause: fmt.Errorf("internal error: %w", e)}
		return
	}
	*errp = &Error{Kind: Invariant, cause: fmt.Errorf("internal error: %v", r)}
}
