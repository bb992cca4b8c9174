// Package errors defines LisPy's runtime error taxonomy, grounded on the
// ErrorClass + message-prefix convention of pkg/parsley/errors/errors.go,
// trimmed to the fixed prefix set spec.md §7 enumerates. The prefix
// convention is load-bearing: spec.md §4.9's assert-raises? matches on
// substring against the formatted message.
package errors

import "fmt"

// Prefix is one of the conventional EvaluationError message prefixes of
// spec.md §7.
type Prefix string

const (
	Syntax         Prefix = "SyntaxError"
	Type           Prefix = "TypeError"
	Arity          Prefix = "ArityError"
	ValuePrefix    Prefix = "ValueError"
	ZeroDivision   Prefix = "ZeroDivisionError"
	Index          Prefix = "IndexError"
	Runtime        Prefix = "RuntimeError"
	FileNotFound   Prefix = "FileNotFoundError"
	Permission     Prefix = "PermissionError"
	Network        Prefix = "NetworkError"
	Retry          Prefix = "RetryError"
	UnboundSymbol  Prefix = "Unbound symbol"
	IsADirectory   Prefix = "IsADirectoryError"
	FileGeneric    Prefix = "FileError"
)

// EvaluationError is the single runtime error type of spec.md §7. Every
// non-user-thrown failure in lexing, parsing, and evaluation is reported
// through it (LexerError/ParseError are distinct Go error types — see
// pkg/lispy/lexer and pkg/lispy/parser — but EvaluationError is what
// `try`/`catch` sees once control reaches the evaluator).
type EvaluationError struct {
	Prefix  Prefix
	Message string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Prefix, e.Message)
}

// New builds an EvaluationError with the given prefix.
func New(prefix Prefix, format string, args ...any) *EvaluationError {
	return &EvaluationError{Prefix: prefix, Message: fmt.Sprintf(format, args...)}
}

// Arityf builds the ArityError spec.md §4.4 requires: function name,
// expected count (or range), and observed count.
func Arityf(name string, expected string, got int) *EvaluationError {
	return New(Arity, "%s expects %s argument(s), got %d", name, expected, got)
}

// Typef builds a TypeError naming the offending argument's position and
// observed kind, per spec.md §4.6.
func Typef(fn string, position int, expected string, gotKind string) *EvaluationError {
	return New(Type, "%s: argument %d must be %s, got %s", fn, position, expected, gotKind)
}

// AssertionFailure is a subclass of EvaluationError used only by BDD
// assertions (spec.md §4.9, §7): distinguishable for reporting, but
// transparent to try/catch (it IS an *EvaluationError underneath).
type AssertionFailure struct {
	*EvaluationError
}

// NewAssertionFailure builds an AssertionFailure with message msg.
func NewAssertionFailure(format string, args ...any) *AssertionFailure {
	return &AssertionFailure{EvaluationError: New(ValuePrefix, format, args...)}
}

// UserThrownError is produced by (throw v); it carries the arbitrary
// value v rather than a formatted message (spec.md §4.5, §7). The payload
// is typed as `any` (rather than pkg/lispy/object.Value) to keep this
// package free of a dependency on the object package; the evaluator
// type-asserts it back to object.Value when handling `catch`.
type UserThrownError struct {
	Value any
}

func (e *UserThrownError) Error() string {
	return "user thrown error"
}

// NewUserThrown wraps an arbitrary thrown value.
func NewUserThrown(v any) *UserThrownError {
	return &UserThrownError{Value: v}
}
