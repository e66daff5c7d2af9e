package motion

import "fmt"

// ErrorKind classifies a recoverable motion error.
type ErrorKind uint8

const (
	KindInvalidProperty ErrorKind = iota + 1
	KindInvalidValue
	KindUnknownVariant
	KindInvalidTransitionConfig
	KindGestureCapacityExceeded
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidProperty:
		return "invalid property"
	case KindInvalidValue:
		return "invalid value"
	case KindUnknownVariant:
		return "unknown variant"
	case KindInvalidTransitionConfig:
		return "invalid transition config"
	case KindGestureCapacityExceeded:
		return "gesture capacity exceeded"
	}
	return "unknown error"
}

// Error is the single error type returned by the engine. Name carries the
// offending property or variant name; Reason carries a human readable detail.
//
// Match kinds with errors.Is against the Err* sentinels:
//
//	if errors.Is(err, motion.ErrUnknownVariant) { ... }
type Error struct {
	Kind   ErrorKind
	Name   string
	Reason string
}

// Sentinels for errors.Is. They compare by Kind only.
var (
	ErrInvalidProperty         = &Error{Kind: KindInvalidProperty}
	ErrInvalidValue            = &Error{Kind: KindInvalidValue}
	ErrUnknownVariant          = &Error{Kind: KindUnknownVariant}
	ErrInvalidTransitionConfig = &Error{Kind: KindInvalidTransitionConfig}
	ErrGestureCapacityExceeded = &Error{Kind: KindGestureCapacityExceeded}
)

func (e *Error) Error() string {
	switch {
	case e.Name != "" && e.Reason != "":
		return fmt.Sprintf("motion: %s %q: %s", e.Kind, e.Name, e.Reason)
	case e.Name != "":
		return fmt.Sprintf("motion: %s %q", e.Kind, e.Name)
	case e.Reason != "":
		return fmt.Sprintf("motion: %s: %s", e.Kind, e.Reason)
	}
	return "motion: " + e.Kind.String()
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidProperty(name string) error {
	return &Error{Kind: KindInvalidProperty, Name: name, Reason: "property name must be non-empty"}
}

func invalidValue(name, format string, args ...any) error {
	return &Error{Kind: KindInvalidValue, Name: name, Reason: fmt.Sprintf(format, args...)}
}

func unknownVariant(name string) error {
	return &Error{Kind: KindUnknownVariant, Name: name}
}

func invalidTransition(format string, args ...any) error {
	return &Error{Kind: KindInvalidTransitionConfig, Reason: fmt.Sprintf(format, args...)}
}
