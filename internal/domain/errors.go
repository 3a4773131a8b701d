package domain

import (
	"errors"
)

// Tipos de erro do núcleo de campanhas. Todos os erros devolvidos pelos casos de uso
// encapsulam exatamente um destes.
var (
	ErrNotFound          = errors.New("campanha não encontrada")
	ErrForbidden         = errors.New("ator sem permissão para o comando")
	ErrInvalidTransition = errors.New("comando não permitido no status atual")
	ErrInvalid           = errors.New("dados inválidos")
	ErrConflict          = errors.New("campanha alterada concorrentemente")
	ErrTransient         = errors.New("falha transitória de infraestrutura")
)

// TransientError marca uma falha de infraestrutura que pode ser repetida
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return ErrTransient.Error() + ": " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}

// NewTransientError encapsula err como falha transitória; nil continua nil
func NewTransientError(err error) error {
	if err == nil {
		return nil
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return err
	}

	return &TransientError{Err: err}
}

// IsRetryable indica se o chamador pode repetir o mesmo comando
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTransient)
}

// Kind devolve o tipo de erro do núcleo encapsulado em err, ou nil
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrInvalidTransition, ErrInvalid, ErrConflict, ErrTransient} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
