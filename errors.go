package keyeval

import "errors"

// ErrUnknownKey indicates a key label outside the known vocabulary.
var ErrUnknownKey = errors.New("keyeval: unknown key label")
