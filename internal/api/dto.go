package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/advent/internal/domain"
)

// CreateRunRequest — запрос на запуск дня.
type CreateRunRequest struct {
	// Input — входные данные. nil — скачать с сервера.
	Input *string `json:"input,omitempty"`
}

// RunResponse — ответ с run.
type RunResponse struct {
	ID         uuid.UUID        `json:"id"`
	Year       int              `json:"year"`
	Day        int              `json:"day"`
	Program    string           `json:"program"`
	Status     domain.RunStatus `json:"status"`
	InputBytes int              `json:"input_bytes"`
	Output     []string         `json:"output,omitempty"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	DurationMS int64            `json:"duration_ms"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// RunFromDomain конвертирует domain.Run в RunResponse.
func RunFromDomain(r domain.Run) RunResponse {
	return RunResponse{
		ID:         r.ID,
		Year:       r.Year,
		Day:        r.Day,
		Program:    r.Program,
		Status:     r.Status,
		InputBytes: r.InputBytes,
		Output:     r.Output,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMS: r.Duration().Milliseconds(),
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
}

// CheckResponse — результат разбора программы.
type CheckResponse struct {
	// Graph — граф в формате отладочной печати.
	Graph string `json:"graph"`

	// Branches — имена объявленных fanout.
	Branches []string `json:"branches"`
}
