package template

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders deep-link, search and recipe templates. Templates use Go
// text/template syntax with the sprig function set, e.g.
// "https://example.com/watch/{{ .id | urlquery }}".
type Engine struct {
	// Pattern to match plain variable references like {{ .variableName }}
	variablePattern *regexp.Regexp

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		variablePattern: regexp.MustCompile(`\{\{-?\s*\.([a-zA-Z_][a-zA-Z0-9_]*)`),
		cache:           make(map[string]*template.Template),
	}
}

// Render executes tmpl against vars. Referencing a variable that is not in
// vars is an error.
func (e *Engine) Render(tmpl string, vars map[string]string) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := e.parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", tmpl, err)
	}
	return buf.String(), nil
}

// RenderMap renders every value of m. Keys are copied unchanged.
func (e *Engine) RenderMap(m map[string]string, vars map[string]string) (map[string]string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	result := make(map[string]string, len(m))
	for key, value := range m {
		rendered, err := e.Render(value, vars)
		if err != nil {
			return nil, fmt.Errorf("error in key '%s': %w", key, err)
		}
		result[key] = rendered
	}
	return result, nil
}

func (e *Engine) parse(tmpl string) (*template.Template, error) {
	e.mu.RLock()
	t, ok := e.cache[tmpl]
	e.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := template.New("uri").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", tmpl, err)
	}

	e.mu.Lock()
	e.cache[tmpl] = t
	e.mu.Unlock()
	return t, nil
}

// ExtractVariables returns the sorted names of the variables a template
// references directly.
func (e *Engine) ExtractVariables(tmpl string) []string {
	variables := make(map[string]bool)
	for _, match := range e.variablePattern.FindAllStringSubmatch(tmpl, -1) {
		if len(match) >= 2 {
			variables[match[1]] = true
		}
	}

	result := make([]string, 0, len(variables))
	for varName := range variables {
		result = append(result, varName)
	}
	sort.Strings(result)
	return result
}

// Validate parses tmpl without executing it.
func (e *Engine) Validate(tmpl string) error {
	if !strings.Contains(tmpl, "{{") {
		return nil
	}
	_, err := e.parse(tmpl)
	return err
}

// ValidateContext ensures all referenced variables are present in vars
func (e *Engine) ValidateContext(tmpl string, vars map[string]string) error {
	var missingVars []string
	for _, varName := range e.ExtractVariables(tmpl) {
		if _, exists := vars[varName]; !exists {
			missingVars = append(missingVars, varName)
		}
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingVars, ", "))
	}

	return nil
}
