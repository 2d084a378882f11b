package model

import "errors"

var (
	// ErrInvalidInput возвращается, когда данные нарушают инвариант, необходимый для вычислений
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound возвращается хранилищем, если сущность с таким ID не существует
	ErrNotFound = errors.New("not found")
)
