package models

import (
	"strings"

	"github.com/google/uuid"

	dErrors "chronoplan/pkg/domain-errors"
)

// Profile is a named entity events are associated with, e.g. a person or a
// shared calendar. Names are unique with a case-sensitive exact match; the
// store enforces uniqueness, the model enforces shape.
type Profile struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func NewProfile(id uuid.UUID, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "profile name cannot be empty")
	}
	return &Profile{ID: id, Name: name}, nil
}
