package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — одно выполнение pipeline-программы над входными данными дня.
//
// Run создаётся когда:
// - Пользователь запускает день вручную (advent run)
// - Scheduler запускает день в момент открытия задачи
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// Year — год Advent of Code.
	Year int `json:"year"`

	// Day — номер дня (1..25).
	Day int `json:"day"`

	// Program — путь к файлу программы.
	Program string `json:"program"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// InputBytes — размер входных данных.
	InputBytes int `json:"input_bytes"`

	// Output — строки, напечатанные терминальными стадиями.
	Output []string `json:"output,omitempty"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения (успешного или с ошибкой).
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run в статусе PENDING.
func NewRun(year, day int, program string) *Run {
	return &Run{
		ID:        uuid.New(),
		Year:      year,
		Day:       day,
		Program:   program,
		Status:    RunStatusPending,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит run в статус SUCCEEDED.
func (r *Run) MarkSucceeded(output []string) {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
	r.Output = output
}

// MarkFailed переводит run в статус FAILED с ошибкой.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.Error = err
}
