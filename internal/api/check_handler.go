package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/shaiso/advent/internal/engine"
)

// maxProgramSize — предел размера программы.
const maxProgramSize = 64 * 1024

// CheckProgram разбирает программу из тела запроса и возвращает граф.
// POST /api/v1/check
func (h *Handler) CheckProgram(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProgramSize))
	if err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	p, err := engine.Parse(string(src), engine.WithOutput(io.Discard))
	if err != nil {
		var pErr *engine.ParseError
		if errors.As(err, &pErr) {
			JSON(w, http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    ErrCodeParseError,
					Message: pErr.Message,
					Line:    pErr.Pos.Line,
					Column:  pErr.Pos.Column,
				},
			})
			return
		}
		InternalError(w, h.logger, err)
		return
	}
	defer p.Close()

	branches := make([]string, len(p.Branches))
	for i, b := range p.Branches {
		branches[i] = b.Name
	}

	Success(w, CheckResponse{Graph: p.String(), Branches: branches})
}
