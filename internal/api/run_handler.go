package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/repo"
	"github.com/shaiso/advent/internal/runner"
	"github.com/shaiso/advent/internal/source"
)

// maxRequestBody — предел тела запроса с входными данными.
const maxRequestBody = source.MaxInputSize + 1024

// ListRuns возвращает список runs с фильтрацией.
// GET /api/v1/runs?day=...&status=...&limit=...&offset=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		Unavailable(w, "run history is disabled")
		return
	}

	filter := repo.RunFilter{Year: h.year, Limit: 50}

	q := r.URL.Query()
	if dayStr := q.Get("day"); dayStr != "" {
		day, err := strconv.Atoi(dayStr)
		if err != nil || source.ValidateDay(day) != nil {
			BadRequest(w, "invalid day")
			return
		}
		filter.Day = day
	}

	if status := q.Get("status"); status != "" {
		filter.Status = domain.RunStatus(strings.ToUpper(status))
	}

	filter.Limit = int(parseIntParam(q.Get("limit"), int64(filter.Limit)))
	filter.Offset = int(parseIntParam(q.Get("offset"), 0))

	runs, err := h.runs.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i, run := range runs {
		result[i] = RunFromDomain(run)
	}

	List(w, result, len(result))
}

// GetRun возвращает run по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		Unavailable(w, "run history is disabled")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}

// CreateRun выполняет программу дня синхронно.
// POST /api/v1/days/{day}/runs
//
// Run, завершившийся с ошибкой, тоже возвращается с 201: статус FAILED и текст ошибки в теле.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		Unavailable(w, "runner is disabled")
		return
	}

	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil || source.ValidateDay(day) != nil {
		BadRequest(w, "invalid day")
		return
	}

	var req CreateRunRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(w, "invalid request body")
		return
	}

	run, err := h.runner.Run(r.Context(), runner.Request{Day: day, Input: req.Input})
	if run == nil {
		if errors.Is(err, source.ErrProgramNotFound) {
			NotFound(w, "no program for day "+strconv.Itoa(day))
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, RunFromDomain(*run))
}

// parseIntParam разбирает неотрицательное число из query, иначе возвращает значение по умолчанию.
func parseIntParam(s string, defaultVal int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
