package domain

import "errors"

var (
	ErrInvalidDate   = errors.New("invalid date, expected DD-MM-YYYY")
	ErrAlreadyExists = errors.New("birthday already exists")
	ErrNotFound      = errors.New("birthday not found")
)
