package queue

import "errors"

var (
	// ErrNotFound — запись с таким идентификатором не существует.
	ErrNotFound = errors.New("запись в очереди не найдена")
	// ErrInvalidTransition — текущий статус записи не допускает действие.
	ErrInvalidTransition = errors.New("текущий статус записи не допускает это действие")
	// ErrStaleTransition — время ответа истекло либо запись уже обработана
	// параллельным действием.
	ErrStaleTransition = errors.New("время ответа истекло или запись уже обработана")
	// ErrConflict — параллельная запись заняла тот же порядковый номер,
	// повторы исчерпаны. Операцию безопасно повторить целиком.
	ErrConflict = errors.New("конфликт одновременной записи, повторите попытку")
)

// ValidationError описывает некорректное входное поле.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
