package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var (
	ErrRenderTemplate = errors.New("tmplx: render error")
	ErrParseTemplate  = errors.New("tmplx: parse error")
)

// Template wraps text/template with the token functions email
// templates are written against.
type Template struct {
	tmpl *template.Template
}

type Options struct {
	validate ValidateFunc
	testData any
	funcs    template.FuncMap
}

type Option func(*Options) error

type ValidateFunc func(*bytes.Buffer) error

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"default": defaultFunc,
		"json":    jsonFunc,
		"jsonGet": jsonGet,
		"upper":   upperFunc,
		"lower":   lowerFunc,
		"trim":    trimFunc,
	}
}

// WithTemplateFunc adds a custom template function.
func WithTemplateFunc(name string, fn any) Option {
	return func(t *Options) error {
		t.funcs[name] = fn
		return nil
	}
}

// WithValidate renders the template once against testData at parse time
// and runs validateFn over the output, so broken templates are rejected
// before they are stored or used.
func WithValidate(testData any, validateFn ValidateFunc) Option {
	return func(t *Options) error {
		t.validate = validateFn
		t.testData = testData
		return nil
	}
}

func MustParse(name string, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(name string, text string, args ...Option) (*Template, error) {
	opts := &Options{
		funcs: defaultFuncs(),
	}
	for _, arg := range args {
		if err := arg(opts); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(opts.funcs).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	t := &Template{
		tmpl: tmpl,
	}
	if opts.validate != nil {
		if err := t.validateWith(opts.testData, opts.validate); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Template) validateWith(data any, validate ValidateFunc) error {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	if err := validate(buf); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}
	return nil
}

func (t *Template) Render(data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	return buf, nil
}

func defaultFunc(def any, value any) any {
	if value != nil && value != "" {
		return value
	}
	return def
}

func jsonFunc(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func jsonGet(path string, raw string) string {
	return gjson.Get(raw, path).String()
}

func upperFunc(v any) string { return strings.ToUpper(cast.ToString(v)) }

func lowerFunc(v any) string { return strings.ToLower(cast.ToString(v)) }

func trimFunc(v any) string { return strings.TrimSpace(cast.ToString(v)) }

var fieldsRegexp = regexp.MustCompile(`{{[^{}]*\.(\w+)[^{}]*}}`)

// ExtractFields lists the distinct top-level tokens a template body
// references, used to check a stored template against the token
// glossary before accepting it.
func ExtractFields(content string) []string {
	matches := fieldsRegexp.FindAllStringSubmatch(content, -1)
	fields := make([]string, 0)
	dict := make(map[string]struct{})
	for _, match := range matches {
		if len(match) == 2 && match[1] != "" {
			if _, ok := dict[match[1]]; !ok {
				fields = append(fields, match[1])
				dict[match[1]] = struct{}{}
			}
		}
	}
	return fields
}
