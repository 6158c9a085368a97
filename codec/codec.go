// Package codec is the single place where component values are converted to
// and from bytes. Snapshot records and component metadata both go through it.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

func Encode(value any) ([]byte, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}

func Decode[T any](bz []byte) (T, error) {
	value := new(T)
	if err := json.Unmarshal(bz, value); err != nil {
		return *value, eris.Wrap(err, "")
	}
	return *value, nil
}

// DecodeInto unmarshals into a caller-supplied destination. It is used where
// the concrete type is only known through reflection.
func DecodeInto(bz []byte, dst any) error {
	return eris.Wrap(json.Unmarshal(bz, dst), "")
}
