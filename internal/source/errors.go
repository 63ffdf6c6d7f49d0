package source

import (
	"errors"
	"fmt"
)

// Ошибки источников данных.
var (
	// ErrInvalidDay — номер дня вне диапазона 1..25.
	ErrInvalidDay = errors.New("day must be between 1 and 25")

	// ErrMissingSession — не задан session cookie.
	ErrMissingSession = errors.New("session token is not set")

	// ErrInputTooLarge — входные данные больше допустимого размера.
	ErrInputTooLarge = errors.New("input exceeds size limit")

	// ErrProgramNotFound — файл программы не найден.
	ErrProgramNotFound = errors.New("program not found")

	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")

	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")
)

// HTTPError — сервер ответил не 200.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error реализует интерфейс error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// IsHTTPError проверяет, является ли ошибка HTTP ошибкой.
func IsHTTPError(err error) bool {
	var hErr *HTTPError
	return errors.As(err, &hErr)
}

// ValidateDay проверяет номер дня.
func ValidateDay(day int) error {
	if day < 1 || day > 25 {
		return fmt.Errorf("%w: got %d", ErrInvalidDay, day)
	}
	return nil
}
