package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shaiso/advent/internal/source"
)

// Ключи настроек. Имя переменной окружения совпадает с ключом в верхнем регистре.
const (
	KeySession    = "advent_session"
	KeyYear       = "advent_year"
	KeyBaseURL    = "advent_base_url"
	KeyProgramDir = "advent_program_dir"
	KeyCacheDir   = "advent_cache_dir"
	KeyInputURL   = "advent_input_url"
	KeyProgram    = "advent_program_pattern"
	KeyDBURL      = "db_url"
	KeyRabbitURL  = "rabbitmq_url"
	KeyMetrics    = "metrics_addr"
)

// Значения по умолчанию.
const (
	DefaultYear       = 2022
	DefaultBaseURL    = "https://adventofcode.com"
	DefaultProgramDir = "src"
	DefaultEnvFile    = ".env"
)

// ErrInvalidConfig — некорректное значение настройки.
var ErrInvalidConfig = errors.New("invalid config")

// Config — настройки advent.
type Config struct {
	// Session — session cookie для скачивания входных данных.
	Session string `mapstructure:"advent_session"`

	// Year — год Advent of Code.
	Year int `mapstructure:"advent_year"`

	// BaseURL — адрес сервера входных данных.
	BaseURL string `mapstructure:"advent_base_url"`

	// ProgramDir — каталог программ day<N>.pipe.
	ProgramDir string `mapstructure:"advent_program_dir"`

	// InputURL — шаблон URL входных данных дня.
	InputURL string `mapstructure:"advent_input_url"`

	// ProgramPattern — шаблон имени программы внутри ProgramDir.
	ProgramPattern string `mapstructure:"advent_program_pattern"`

	// CacheDir — каталог кэша входных данных. Пустой — без кэша.
	CacheDir string `mapstructure:"advent_cache_dir"`

	// DBURL — PostgreSQL для истории runs. Пустой — без истории.
	DBURL string `mapstructure:"db_url"`

	// RabbitURL — RabbitMQ для событий run.completed. Пустой — без событий.
	RabbitURL string `mapstructure:"rabbitmq_url"`

	// MetricsAddr — адрес /metrics для команды schedule. Пустой — без сервера.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Option — опция загрузки.
type Option func(*loader)

type loader struct {
	envFile string
	lookup  func(key string) (string, bool)
}

// WithEnvFile задаёт путь к .env. Пустая строка отключает загрузку файла.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// WithLookup подменяет источник переменных окружения.
func WithLookup(fn func(key string) (string, bool)) Option {
	return func(l *loader) { l.lookup = fn }
}

// Load загружает конфигурацию.
func Load(opts ...Option) (*Config, error) {
	l := loader{envFile: DefaultEnvFile}
	for _, opt := range opts {
		opt(&l)
	}

	v := viper.New()
	v.SetDefault(KeySession, "")
	v.SetDefault(KeyYear, DefaultYear)
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyProgramDir, DefaultProgramDir)
	v.SetDefault(KeyInputURL, source.DefaultInputPattern)
	v.SetDefault(KeyProgram, source.DefaultProgramPattern)
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyDBURL, "")
	v.SetDefault(KeyRabbitURL, "")
	v.SetDefault(KeyMetrics, "")

	// .env читается без изменения окружения процесса: уже заданные переменные важнее
	if l.envFile != "" {
		values, err := godotenv.Read(l.envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", l.envFile, err)
		}
		for key, value := range values {
			v.SetDefault(strings.ToLower(key), value)
		}
	}

	if l.lookup == nil {
		v.AutomaticEnv()
	} else {
		for _, key := range v.AllKeys() {
			if value, ok := l.lookup(strings.ToUpper(key)); ok {
				v.Set(key, value)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения.
func (c *Config) Validate() error {
	if c.Year < 2015 {
		return fmt.Errorf("%w: ADVENT_YEAR must be 2015 or later, got %d", ErrInvalidConfig, c.Year)
	}
	if c.ProgramDir == "" {
		return fmt.Errorf("%w: ADVENT_PROGRAM_DIR is empty", ErrInvalidConfig)
	}
	if err := source.CheckPattern(c.InputURL); err != nil {
		return fmt.Errorf("%w: ADVENT_INPUT_URL: %v", ErrInvalidConfig, err)
	}
	if err := source.CheckPattern(c.ProgramPattern); err != nil {
		return fmt.Errorf("%w: ADVENT_PROGRAM_PATTERN: %v", ErrInvalidConfig, err)
	}
	return nil
}

// HasHistory сообщает, настроена ли история runs.
func (c *Config) HasHistory() bool {
	return c.DBURL != ""
}

// HasEvents сообщает, настроена ли публикация событий.
func (c *Config) HasEvents() bool {
	return c.RabbitURL != ""
}
