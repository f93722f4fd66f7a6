// Package codec encodes component values for diagnostics. Nothing in the module decodes component values: the
// stores hold them as Go values and the only consumer of the encoded form is the logger.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Encode returns the JSON form of a component value.
func Encode(comp any) ([]byte, error) {
	bz, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to encode %T", comp)
	}
	return bz, nil
}
