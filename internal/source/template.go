package source

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Vars — данные для шаблонов путей и URL.
//
//	{{ .BaseURL }}/{{ .Year }}/day/{{ .Day }}/input   ADVENT_INPUT_URL
//	day{{ pad2 .Day }}.pipe                          ADVENT_PROGRAM_PATTERN
type Vars struct {
	BaseURL string
	Year    int
	Day     int
}

// templateFuncs — дополнительные функции для шаблонов.
var templateFuncs = template.FuncMap{
	// pad2 — число с ведущим нулём до двух знаков: day{{ pad2 .Day }}.pipe
	"pad2": func(n int) string {
		return fmt.Sprintf("%02d", n)
	},
}

// Render рендерит шаблон с переменными.
// Строка без "{{" возвращается как есть.
func Render(tmpl string, vars Vars) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}

// CheckPattern проверяет шаблон на пробных значениях.
// Разные дни должны давать разные строки, иначе все дни попадут в один файл или URL.
func CheckPattern(tmpl string) error {
	first, err := Render(tmpl, Vars{BaseURL: DefaultBaseURL, Year: 2015, Day: 1})
	if err != nil {
		return err
	}
	last, err := Render(tmpl, Vars{BaseURL: DefaultBaseURL, Year: 2015, Day: 25})
	if err != nil {
		return err
	}
	if first == last {
		return fmt.Errorf("%w: %q does not depend on .Day", ErrTemplateRender, tmpl)
	}
	return nil
}
