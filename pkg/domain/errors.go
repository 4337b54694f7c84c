package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInputNotFound is returned when an input id does not exist in the input list.
var ErrInputNotFound = errors.New("input not found")

// ErrUnknownProperty is returned when an input property key is not recognized.
var ErrUnknownProperty = errors.New("unknown input property")

// ErrUnknownField is returned when a definition field id is not recognized.
var ErrUnknownField = errors.New("unknown definition field")

// ErrConnectionDisabled is returned when previous/next is enabled on a block with an output.
var ErrConnectionDisabled = errors.New("statement connections are disabled while output is enabled")

// ErrUnknownEvent is returned for events whose kind is not recognized.
var ErrUnknownEvent = errors.New("unknown event kind")

// ErrUnknownKind is returned when an input is added with a kind outside the enumeration.
var ErrUnknownKind = errors.New("unsupported input kind")

// ErrBlockNotFound is returned when a library block ID does not exist.
var ErrBlockNotFound = errors.New("block not found")
