// Package tmplx wraps text/template with the helpers used by store search
// URLs and assistant prompts.
package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var (
	ErrRenderTemplate = errors.New("tmplx: render error")
	ErrParseTemplate  = errors.New("tmplx: parse error")
)

type Template struct {
	name string
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
		"default":        defaultFunc,
		"json":           jsonFunc,
		"lower":          lowerFunc,
		"join":           joinFunc,
		"queryEscape":    queryEscape,
		"pathEscape":     pathEscape,
		"encodeUrlQuery": encodeUrlQuery,
	}
}

// WithTemplateFunc adds a single custom template function
func WithTemplateFunc(name string, fn any) Option {
	return func(t *Options) error {
		if fn == nil {
			return fmt.Errorf("%w: nil func %q", ErrParseTemplate, name)
		}
		t.funcs[name] = fn
		return nil
	}
}

// WithValidate renders testData once at parse time and hands the output to validateFn.
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
		name: name,
		tmpl: tmpl,
	}
	if opts.validate != nil {
		if err := t.validate(opts.testData, opts.validate); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) validate(data any, validate ValidateFunc) error {
	buf, err := t.Render(data)
	if err != nil {
		return err
	}
	if err := validate(buf); err != nil {
		return fmt.Errorf("validate template %s: %w", t.name, err)
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

func (t *Template) RenderString(data any) (string, error) {
	buf, err := t.Render(data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func defaultFunc(def any, value any) any {
	if value != nil && cast.ToString(value) != "" {
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

func lowerFunc(v any) string {
	return strings.ToLower(cast.ToString(v))
}

func joinFunc(sep string, v any) string {
	return strings.Join(cast.ToStringSlice(v), sep)
}

func queryEscape(v any) string {
	return url.QueryEscape(cast.ToString(v))
}

func pathEscape(v any) string {
	return url.PathEscape(cast.ToString(v))
}

func encodeUrlQuery(queries ...any) string {
	query := url.Values{}
	for i := 0; i < len(queries); i += 2 {
		value := ""
		if i+1 < len(queries) {
			value = cast.ToString(queries[i+1])
		}
		query.Add(cast.ToString(queries[i]), value)
	}
	return query.Encode()
}

var fieldsRegexp = regexp.MustCompile(`{{[^{}]*\.(\w+)[^{}]*}}`)

// ExtractFields lists the data fields referenced by a template, in order of
// first appearance.
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
