package service

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	ErrNoEncontrado = errors.New("no encontrado")
	ErrDuplicado    = errors.New("duplicado")
	ErrValidacion   = errors.New("validacion")
)

// errorDominio carries a user-facing message and unwraps to one of the sentinels.
type errorDominio struct {
	tipo error
	msg  string
}

func (e *errorDominio) Error() string { return e.msg }
func (e *errorDominio) Unwrap() error { return e.tipo }

func noEncontrado(format string, args ...interface{}) error {
	return &errorDominio{tipo: ErrNoEncontrado, msg: fmt.Sprintf(format, args...)}
}

func invalido(format string, args ...interface{}) error {
	return &errorDominio{tipo: ErrValidacion, msg: fmt.Sprintf(format, args...)}
}

// ConflictoError is a duplicate-key error that carries the offending field.
// errors.Is(err, ErrDuplicado) holds for it.
type ConflictoError struct {
	Code  string // DUP_NUMERO | DUP_DNI
	Field string
	Msg   string
}

func (e *ConflictoError) Error() string { return e.Msg }
func (e *ConflictoError) Unwrap() error { return ErrDuplicado }
