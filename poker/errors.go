package poker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a request the core refuses before doing any
	// work: too few cards, duplicates, or counts out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCard reports card text that does not name a card.
	ErrInvalidCard = fmt.Errorf("%w: invalid card", ErrInvalidInput)
)
