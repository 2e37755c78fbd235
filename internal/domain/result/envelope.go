package result

import (
	"encoding/json"
	"errors"
)

// Envelope is the wire form of a Result: {"success": value} or {"error": "message"}.
type Envelope[T any] struct {
	Success *T      `json:"success,omitempty"`
	Error   *string `json:"error,omitempty"`
}

// ErrMalformedEnvelope is returned when a payload carries neither or both variants.
var ErrMalformedEnvelope = errors.New("result envelope must carry exactly one of success or error")

// ToEnvelope converts a result into its wire form.
func ToEnvelope[T any](r Result[T]) Envelope[T] {
	return Match(r,
		func(v T) Envelope[T] { return Envelope[T]{Success: &v} },
		func(msg string) Envelope[T] { return Envelope[T]{Error: &msg} },
	)
}

// FromEnvelope converts the wire form back into a result.
func FromEnvelope[T any](e Envelope[T]) (Result[T], error) {
	switch {
	case e.Success != nil && e.Error == nil:
		return Success(*e.Success), nil
	case e.Error != nil && e.Success == nil:
		return Failure[T](*e.Error), nil
	default:
		return Result[T]{}, ErrMalformedEnvelope
	}
}

// MarshalJSON encodes the result as an Envelope.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrMalformedEnvelope
	}
	return json.Marshal(ToEnvelope(r))
}

// UnmarshalJSON decodes an Envelope into the result.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var e Envelope[T]
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	decoded, err := FromEnvelope(e)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}
