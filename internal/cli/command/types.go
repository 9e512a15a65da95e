package command

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType describes input type.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldUint
)

// FieldLocation says where a field goes in the request.
type FieldLocation int

const (
	InPath FieldLocation = iota
	InQuery
)

// Field defines a CLI input field.
type Field struct {
	Name     string
	Aliases  []string
	Prompt   string
	Type     FieldType
	In       FieldLocation
	Required bool
}

// Render selects extra output after the JSON body.
type Render int

const (
	RenderJSON Render = iota
	RenderAnalysis
	RenderComparison
)

// Command defines a CLI command binding.
type Command struct {
	Name         string
	Summary      string
	Method       string
	PathTemplate string
	Fields       []Field
	Render       Render
}

// RequestSpec is the built HTTP request.
type RequestSpec struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// Params holds parsed input params.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

func (p Params) Set(key, value string) {
	p[strings.ToLower(key)] = value
}

func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}

func (p Params) Canonicalize(fields []Field) {
	for _, field := range fields {
		for _, alias := range field.Aliases {
			aliasKey := strings.ToLower(alias)
			if value, ok := p[aliasKey]; ok {
				p[strings.ToLower(field.Name)] = value
				delete(p, aliasKey)
			}
		}
	}
}

// Validate checks typed fields that are present.
func (f Field) Validate(value string) error {
	value = strings.TrimSpace(value)
	switch f.Type {
	case FieldInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid %s: expected integer", f.Name)
		}
	case FieldUint:
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("invalid %s: expected unsigned integer", f.Name)
		}
	}
	return nil
}
