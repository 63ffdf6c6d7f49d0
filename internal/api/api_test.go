package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/repo"
	"github.com/shaiso/advent/internal/runner"
	"github.com/shaiso/advent/internal/source"
)

type fakeRuns struct {
	runs   []domain.Run
	filter repo.RunFilter
}

func (f *fakeRuns) List(_ context.Context, filter repo.RunFilter) ([]domain.Run, error) {
	f.filter = filter
	return f.runs, nil
}

func (f *fakeRuns) GetByID(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

type fakeRunner struct {
	req runner.Request
}

func (f *fakeRunner) Run(_ context.Context, req runner.Request) (*domain.Run, error) {
	f.req = req
	if req.Day == 9 {
		return nil, source.ErrProgramNotFound
	}
	run := domain.NewRun(2022, req.Day, "src/day.pipe")
	run.MarkRunning()
	run.MarkSucceeded([]string{"max=18"})
	return run, nil
}

func newTestServer(t *testing.T, runs RunReader, r DayRunner) *httptest.Server {
	t.Helper()
	h := NewHandler(Config{
		Runs:   runs,
		Runner: r,
		Year:   2022,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestListRuns(t *testing.T) {
	runs := &fakeRuns{runs: []domain.Run{*domain.NewRun(2022, 1, "a"), *domain.NewRun(2022, 2, "b")}}
	srv := newTestServer(t, runs, nil)

	resp, err := http.Get(srv.URL + "/api/v1/runs?day=1&status=succeeded&limit=5")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decode[struct {
		Data  []RunResponse `json:"data"`
		Total int           `json:"total"`
	}](t, resp)

	if body.Total != 2 || len(body.Data) != 2 {
		t.Errorf("body = %+v", body)
	}
	want := repo.RunFilter{Year: 2022, Day: 1, Status: domain.RunStatusSucceeded, Limit: 5}
	if runs.filter != want {
		t.Errorf("filter = %+v, want %+v", runs.filter, want)
	}
}

func TestListRuns_BadDay(t *testing.T) {
	srv := newTestServer(t, &fakeRuns{}, nil)

	resp, err := http.Get(srv.URL + "/api/v1/runs?day=30")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetRun(t *testing.T) {
	run := domain.NewRun(2022, 3, "c")
	srv := newTestServer(t, &fakeRuns{runs: []domain.Run{*run}}, nil)

	resp, err := http.Get(srv.URL + "/api/v1/runs/" + run.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	body := decode[struct {
		Data RunResponse `json:"data"`
	}](t, resp)
	if body.Data.ID != run.ID || body.Data.Day != 3 {
		t.Errorf("run = %+v", body.Data)
	}

	resp, err = http.Get(srv.URL + "/api/v1/runs/" + uuid.New().String())
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/v1/runs/not-a-uuid")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", resp.StatusCode)
	}
}

func TestHistoryDisabled(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/api/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestCreateRun(t *testing.T) {
	r := &fakeRunner{}
	srv := newTestServer(t, nil, r)

	resp, err := http.Post(srv.URL+"/api/v1/days/1/runs", "application/json", strings.NewReader(`{"input":"3\n"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[struct {
		Data RunResponse `json:"data"`
	}](t, resp)

	if body.Data.Status != domain.RunStatusSucceeded {
		t.Errorf("status = %s", body.Data.Status)
	}
	if r.req.Day != 1 || r.req.Input == nil || *r.req.Input != "3\n" {
		t.Errorf("request = %+v", r.req)
	}
}

func TestCreateRun_Errors(t *testing.T) {
	srv := newTestServer(t, nil, &fakeRunner{})

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"empty body fetches input", "/api/v1/days/2/runs", "", http.StatusCreated},
		{"bad day", "/api/v1/days/0/runs", "", http.StatusBadRequest},
		{"not a number", "/api/v1/days/x/runs", "", http.StatusBadRequest},
		{"bad body", "/api/v1/days/1/runs", "{", http.StatusBadRequest},
		{"no program", "/api/v1/days/9/runs", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestCheckProgram(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	src := "input |> group('\\n') |> print"
	resp, err := http.Post(srv.URL+"/api/v1/check", "text/plain", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	body := decode[struct {
		Data CheckResponse `json:"data"`
	}](t, resp)
	if body.Data.Graph != "group ->\n  print\n" {
		t.Errorf("graph = %q", body.Data.Graph)
	}

	resp, err = http.Post(srv.URL+"/api/v1/check", "text/plain", strings.NewReader("input |> group('\\n') |> max"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errBody := decode[ErrorResponse](t, resp)
	if errBody.Error.Code != ErrCodeParseError {
		t.Errorf("code = %s", errBody.Error.Code)
	}
	if errBody.Error.Line != 1 || errBody.Error.Column != 25 {
		t.Errorf("position = %d:%d, want 1:25", errBody.Error.Line, errBody.Error.Column)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mw("a"), mw("b"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "h")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,h" {
		t.Errorf("order = %v", order)
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
