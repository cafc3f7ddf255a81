package arena

import "errors"

var (
	// ErrOutOfMemory indicates that the system refused to provide or enlarge
	// a backing region or index list.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrInsufficientResource indicates that an internal index reached its
	// hard capacity ceiling and cannot grow further.
	ErrInsufficientResource = errors.New("arena: resource ceiling reached")
)

// StatusCode is the numeric result of a Free operation as exposed across
// language boundaries.
type StatusCode uint8

const (
	StatusSuccess              StatusCode = 0
	StatusOutOfMemory          StatusCode = 1
	StatusInsufficientResource StatusCode = 2
)

// Status maps an error returned by Free to its boundary status code.
func Status(err error) StatusCode {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInsufficientResource):
		return StatusInsufficientResource
	default:
		return StatusOutOfMemory
	}
}
