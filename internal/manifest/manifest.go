// Package manifest loads the narration manifest handed over by the
// calling process: a JSON file with an ordered `segments` list.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

type Segment struct {
	Text string `json:"text"`
}

type Manifest struct {
	Segments []Segment `json:"segments"`
}

// Load reads and validates the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Segments) == 0 {
		return Manifest{}, fmt.Errorf("manifest %s has no segments", path)
	}
	return m, nil
}

// Texts returns the segment texts in manifest order.
func (m Manifest) Texts() []string {
	texts := make([]string, len(m.Segments))
	for i, s := range m.Segments {
		texts[i] = s.Text
	}
	return texts
}
