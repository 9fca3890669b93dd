// Package id generates entry identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// EntryPrefix marks journal entry ids.
const EntryPrefix = "entry"

// Generate creates a prefixed NanoID, e.g. "entry-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewEntryID is the id source the editor uses for new entries.
func NewEntryID() (string, error) {
	return Generate(EntryPrefix)
}
