package reader

import "errors"

// Conversion errors. All are fatal to the enclosing conversion except
// ErrUnsupportedExpression, which callers may recover from (the action
// rebuilder skips conditions and drops effects built on unsupported
// expressions instead of aborting).
var (
	// ErrNoHandler is returned when a message kind has no registered
	// conversion handler. This is a schema-mismatch or programmer error.
	ErrNoHandler = errors.New("no handler registered for message kind")

	// ErrDuplicateHandler is returned when registering a second handler for
	// the same message kind.
	ErrDuplicateHandler = errors.New("handler already registered for message kind")

	// ErrUnknownSymbol is returned when an atom's symbol names neither an
	// object, nor a parameter of the active action, nor a fluent.
	ErrUnknownSymbol = errors.New("symbol is not a known object, parameter, or fluent")

	// ErrMalformedAtom is returned when an atom has zero or more than one
	// populated field, or when a context requires a symbol and the atom
	// carries a literal.
	ErrMalformedAtom = errors.New("malformed atom")

	// ErrUnknownExpressionKind is returned for expression kinds the schema
	// does not define. Newer-than-supported wire data surfaces here.
	ErrUnknownExpressionKind = errors.New("unknown expression kind")

	// ErrUnsupportedExpression marks expression kinds the schema defines but
	// the converter does not support (function symbols and applications).
	// Recoverable: callers decide whether to skip or abort.
	ErrUnsupportedExpression = errors.New("unsupported expression kind")

	// ErrUnknownEffectKind is returned for effect kinds outside
	// assign/increase/decrease. Never silently defaulted.
	ErrUnknownEffectKind = errors.New("unknown effect kind")

	// ErrTypeMismatch is returned when a constant's declared type disagrees
	// with its atom payload.
	ErrTypeMismatch = errors.New("constant type does not match atom payload")

	// ErrBadTypeDescriptor is returned for malformed bracketed type
	// descriptors.
	ErrBadTypeDescriptor = errors.New("malformed type descriptor")

	// ErrUnknownTimepoint is returned for timepoint kinds outside the four
	// defined anchors.
	ErrUnknownTimepoint = errors.New("unknown timepoint kind")
)
