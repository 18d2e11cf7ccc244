package models

import "errors"

// Ошибки операций движка согласования.
// Контроллеры транслируют их в коды HTTP, обработчики оборачивают через pkg/errors
var (
	ErrNotFound         = errors.New("запись не найдена")
	ErrForbidden        = errors.New("операция недоступна для текущей роли")
	ErrConflict         = errors.New("операция конфликтует с текущим состоянием")
	ErrInvalidState     = errors.New("недопустимый этап для типа покупки")
	ErrMisconfiguration = errors.New("некорректная конфигурация цепочки согласования")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsMisconfiguration(err error) bool {
	return errors.Is(err, ErrMisconfiguration)
}
