package bpe

import "errors"

// Sentinel errors surfaced by the core codec, following the teacher's
// pkg/ans convention of package-level errors.New values rather than a
// third-party errors library.
var (
	// ErrInvalidInput is returned when bytes that are not valid UTF-8
	// are decoded where a string is expected.
	ErrInvalidInput = errors.New("bpe: invalid utf-8 input")

	// ErrNoPairsAvailable is returned when a merge round is requested
	// but the current token stream has fewer than two tokens. A pair
	// that occurs only once is still merged.
	ErrNoPairsAvailable = errors.New("bpe: no pairs available to merge")

	// ErrUnknownToken is returned when a token id outside the
	// installed range is looked up.
	ErrUnknownToken = errors.New("bpe: unknown token")

	// ErrDuplicateRule is returned by InstallRule when the byte
	// sequence or token id has already been installed. A programmer
	// error: the trainer never triggers it in normal operation.
	ErrDuplicateRule = errors.New("bpe: duplicate vocabulary rule")

	// ErrTrainerConsumed is returned by any Trainer operation after
	// IntoCodec has already been called.
	ErrTrainerConsumed = errors.New("bpe: trainer already consumed")

	// ErrIoError wraps persistence I/O and format failures.
	ErrIoError = errors.New("bpe: io error")
)
