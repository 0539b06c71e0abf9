package service

import "errors"

// Классы ошибок, на которые HTTP-слой мапит статусы ответов.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
