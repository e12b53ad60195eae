package fishmg

import "errors"

// Errors returned by the codec and the move applicator. Failures wrap one of these
// with context, so callers should compare with errors.Is.
var (
	ErrMalformedFEN    = errors.New("malformed FEN")
	ErrOutOfRange      = errors.New("value out of range")
	ErrEmptySource     = errors.New("no piece on source square")
	ErrUnknownSymbol   = errors.New("unknown piece symbol")
	ErrInvalidMoveKind = errors.New("invalid move kind")

	// ErrCorrupt means two piece masks claim the same square or the aggregate masks are
	// stale. It is only produced by a broken mutation or a caller that ignored the move
	// contract, never by valid input.
	ErrCorrupt = errors.New("corrupted position")
)
