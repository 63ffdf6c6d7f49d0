package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultProgramPattern — путь к программе дня относительно каталога программ.
const DefaultProgramPattern = "day{{ .Day }}.pipe"

// ProgramLoader читает программы из каталога.
type ProgramLoader struct {
	// Dir — каталог программ.
	Dir string

	// Pattern — шаблон имени файла внутри Dir.
	Pattern string
}

// NewProgramLoader создаёт загрузчик. Пустой pattern — DefaultProgramPattern.
func NewProgramLoader(dir, pattern string) *ProgramLoader {
	if pattern == "" {
		pattern = DefaultProgramPattern
	}
	return &ProgramLoader{
		Dir:     dir,
		Pattern: pattern,
	}
}

// Path возвращает путь к программе дня.
func (l *ProgramLoader) Path(day int) (string, error) {
	if err := ValidateDay(day); err != nil {
		return "", err
	}

	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultProgramPattern
	}
	name, err := Render(pattern, Vars{Day: day})
	if err != nil {
		return "", err
	}
	return filepath.Join(l.Dir, name), nil
}

// Load читает программу дня. Возвращает путь и текст.
func (l *ProgramLoader) Load(day int) (string, string, error) {
	path, err := l.Path(day)
	if err != nil {
		return "", "", err
	}

	src, err := ReadProgram(path)
	if err != nil {
		return path, "", err
	}
	return path, src, nil
}

// Exists проверяет, есть ли программа для дня.
func (l *ProgramLoader) Exists(day int) bool {
	path, err := l.Path(day)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ReadProgram читает программу из файла.
func ReadProgram(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrProgramNotFound, path)
		}
		return "", fmt.Errorf("read program %s: %w", path, err)
	}
	return string(data), nil
}
