package domain

import "errors"

var (
	ErrLineupEmpty      = errors.New("lineup has no entries")
	ErrLineupName       = errors.New("lineup row has no canonical name")
	ErrNoSource         = errors.New("no stream source configured")
	ErrDuplicateChannel = errors.New("duplicate canonical channel")
)
