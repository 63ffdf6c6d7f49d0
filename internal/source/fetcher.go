package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultBaseURL — адрес сервера с входными данными.
	DefaultBaseURL = "https://adventofcode.com"

	// DefaultInputPattern — шаблон URL входных данных дня.
	DefaultInputPattern = "{{ .BaseURL }}/{{ .Year }}/day/{{ .Day }}/input"

	// DefaultCachePattern — шаблон пути кэша внутри CacheDir.
	DefaultCachePattern = "{{ .Year }}/day{{ .Day }}.txt"

	// MaxInputSize — предельный размер входных данных.
	MaxInputSize = 4 * 1024 * 1024 // 4 MB

	defaultFetchTimeout = 30 * time.Second
	userAgent           = "advent-pipeline (+https://github.com/shaiso/advent)"
	maxErrorBody        = 512
)

// Fetcher скачивает входные данные дня.
//
// Если задан CacheDir, ответ сохраняется на диск и повторно не запрашивается.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger

	// BaseURL — адрес сервера.
	BaseURL string

	// InputPattern — шаблон URL входных данных (Vars).
	InputPattern string

	// Session — значение cookie "session".
	// Если строка уже содержит "session=", она уходит как есть.
	Session string

	// CacheDir — каталог кэша. Пустой — без кэша.
	CacheDir string

	// MaxBytes — предельный размер ответа.
	MaxBytes int64
}

// NewFetcher создаёт Fetcher.
func NewFetcher(baseURL, session, cacheDir string, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		logger:   logger,
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		InputPattern: DefaultInputPattern,
		Session:      session,
		CacheDir:     cacheDir,
		MaxBytes:     MaxInputSize,
	}
}

// WithInputPattern задаёт шаблон URL входных данных. Пустая строка — шаблон по умолчанию.
func (f *Fetcher) WithInputPattern(pattern string) *Fetcher {
	if pattern != "" {
		f.InputPattern = pattern
	}
	return f
}

// WithClient подменяет HTTP клиент.
func (f *Fetcher) WithClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// URL возвращает адрес входных данных дня.
func (f *Fetcher) URL(year, day int) (string, error) {
	if err := ValidateDay(day); err != nil {
		return "", err
	}
	pattern := f.InputPattern
	if pattern == "" {
		pattern = DefaultInputPattern
	}
	return Render(pattern, Vars{BaseURL: f.BaseURL, Year: year, Day: day})
}

// CachePath возвращает путь кэша. Пустая строка, если кэш выключен.
func (f *Fetcher) CachePath(year, day int) (string, error) {
	if f.CacheDir == "" {
		return "", nil
	}
	name, err := Render(DefaultCachePattern, Vars{Year: year, Day: day})
	if err != nil {
		return "", err
	}
	return filepath.Join(f.CacheDir, filepath.FromSlash(name)), nil
}

// Fetch возвращает входные данные дня: из кэша или с сервера.
func (f *Fetcher) Fetch(ctx context.Context, year, day int) (string, error) {
	url, err := f.URL(year, day)
	if err != nil {
		return "", err
	}

	cachePath, err := f.CachePath(year, day)
	if err != nil {
		return "", err
	}

	if cachePath != "" {
		data, err := os.ReadFile(cachePath)
		switch {
		case err == nil:
			f.logger.Debug("input loaded from cache", slog.String("path", cachePath), slog.Int("bytes", len(data)))
			return string(data), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("read cache %s: %w", cachePath, err)
		}
	}

	if f.Session == "" {
		return "", ErrMissingSession
	}

	data, err := f.download(ctx, url)
	if err != nil {
		return "", err
	}

	f.logger.Info("input downloaded", slog.String("url", url), slog.Int("bytes", len(data)))

	if cachePath != "" {
		if err := writeCache(cachePath, data); err != nil {
			// Кэш необязателен: данные уже получены
			f.logger.Warn("failed to write cache", slog.String("path", cachePath), slog.String("error", err.Error()))
		}
	}

	return string(data), nil
}

// download выполняет GET запрос.
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cookie", f.cookie())
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = MaxInputSize
	}

	// Читаем на байт больше лимита, чтобы отличить переполнение
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}

	return data, nil
}

// cookie возвращает значение заголовка Cookie.
func (f *Fetcher) cookie() string {
	if strings.Contains(f.Session, "session=") {
		return f.Session
	}
	return "session=" + f.Session
}

// writeCache атомарно записывает файл кэша.
func writeCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
