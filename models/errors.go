package models

import "errors"

var (
	ErrPoolNotFound       = errors.New("pool not found")
	ErrConfessionNotFound = errors.New("confession not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrUnknownReaction    = errors.New("unknown reaction")
	ErrEmptyConfession    = errors.New("confession text is empty")
	ErrEmptyMessage       = errors.New("message text is empty")
)
