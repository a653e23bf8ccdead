package types

import "errors"

// Hard failures. An operation returning one of these applied no edit.
var (
	ErrInvalidRangeFormat = errors.New("invalid range format")
	ErrInvalidLayerNumber = errors.New("invalid layer number")
	ErrUnknownLocation    = errors.New("unknown location")
	ErrUnknownScriptKind  = errors.New("unknown script kind")
)
