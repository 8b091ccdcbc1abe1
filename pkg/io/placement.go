package io

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/labels"
)

// WritePlacementJSON encodes p as indented JSON.
func WritePlacementJSON(p *labels.Placement, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return errors.IO(err, "encode placement")
	}
	return nil
}

// ReadPlacementJSON decodes a placement written by WritePlacementJSON.
func ReadPlacementJSON(r io.Reader) (*labels.Placement, error) {
	var p labels.Placement
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode placement")
	}
	if p.Fingerprint == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "placement has no fingerprint")
	}
	return &p, nil
}
