// Package config loads hailcross settings from a YAML file.
//
// Files are decoded with gopkg.in/yaml.v3 and checked against an embedded CUE
// schema before use. Unknown keys, non-integer bounds, high < low and negative
// worker counts are rejected with the offending field and line.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/hailcross/internal/hail"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the settings a count run needs.
type Config struct {
	Bounds   hail.Bounds `yaml:"bounds" json:"bounds"`
	Workers  int         `yaml:"workers" json:"workers"`
	Database string      `yaml:"database" json:"database,omitempty"`
}

// Default returns the reference bounds with automatic worker sizing.
func Default() Config {
	return Config{Bounds: hail.ReferenceBounds}
}

// Error codes for configuration problems.
const (
	ErrCodeSyntax = "E201" // YAML syntax error
	ErrCodeSchema = "E202" // schema violation
)

// ValidationError is one schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// LoadError reports every problem found in a config file.
type LoadError struct {
	Path   string
	Errors []ValidationError
}

func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("config %s: %s", e.Path, strings.Join(msgs, "; "))
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse validates data and overlays it on Default. name is used in errors.
func Parse(name string, data []byte) (Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Config{}, &LoadError{Path: name, Errors: []ValidationError{{
			Field:   "yaml",
			Message: err.Error(),
			Code:    ErrCodeSyntax,
		}}}
	}

	if root.Kind == 0 {
		// Empty file.
		return Default(), nil
	}

	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return Config{}, &LoadError{Path: name, Errors: []ValidationError{{
			Field:   "yaml",
			Message: err.Error(),
			Code:    ErrCodeSyntax,
		}}}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if errs := validate(raw, &root); len(errs) > 0 {
		return Config{}, &LoadError{Path: name, Errors: errs}
	}

	cfg := Default()
	if err := root.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// validate unifies raw with the #Config definition and collects violations.
func validate(raw map[string]any, root *yaml.Node) []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrCodeSchema}}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(raw))
	err := v.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		path := trimDefinition(e.Path())
		format, args := e.Msg()
		field := strings.Join(path, ".")
		if field == "" {
			field = "config"
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchema,
			Line:    lineOf(root, path),
		})
	}
	return errs
}

// trimDefinition drops a leading "#Config" selector from an error path.
func trimDefinition(path []string) []string {
	if len(path) > 0 && path[0] == "#Config" {
		return path[1:]
	}
	return path
}

// lineOf finds the line of the deepest mapping key along path.
func lineOf(root *yaml.Node, path []string) int {
	node := root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	line := 0
	for _, key := range path {
		if node.Kind != yaml.MappingNode {
			break
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				line = node.Content[i].Line
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			break
		}
		node = next
	}
	return line
}
