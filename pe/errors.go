package pe

import (
	"errors"
	"fmt"
)

// ErrProtocol is matched by every ProtocolError.
var ErrProtocol = errors.New("protocol violation")

// A ProtocolError reports a broken invariant inside a processing element.
// The run cannot continue after one.
type ProtocolError struct {
	PE       string
	Instance string
	Reason   string
}

func (e *ProtocolError) Error() string {
	if e.Instance == "" {
		return fmt.Sprintf("%s: %s", e.PE, e.Reason)
	}

	return fmt.Sprintf("%s: %s: %s", e.PE, e.Instance, e.Reason)
}

// Is makes errors.Is(err, ErrProtocol) true.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}
