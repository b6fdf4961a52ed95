package bitcoin

import "github.com/pkg/errors"

var (
	// ErrWrongSize is returned, wrapped with the actual and expected lengths, when a Hash32 is
	// constructed or set from the wrong number of bytes. Hash20 returns its own error instead.
	ErrWrongSize = errors.New("Wrong byte length")
)
