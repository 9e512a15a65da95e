package command

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Registry returns all CLI commands keyed by name.
func Registry() map[string]Command {
	handle := Field{Name: "handle", Aliases: []string{"h", "user"}, Prompt: "handle", Type: FieldString, In: InPath, Required: true}
	seed := Field{Name: "seed", Prompt: "seed", Type: FieldUint, In: InQuery}
	commands := []Command{
		{
			Name:         "analyze",
			Summary:      "analyze <handle>  full dashboard for a handle",
			Method:       "GET",
			PathTemplate: "/api/v1/handles/:handle/analysis",
			Fields:       []Field{handle},
			Render:       RenderAnalysis,
		},
		{
			Name:         "latest",
			Summary:      "latest  newest analysis of this session",
			Method:       "GET",
			PathTemplate: "/api/v1/session/latest",
			Render:       RenderAnalysis,
		},
		{
			Name:         "recommend",
			Summary:      "recommend [tag=] [range=nearby|easier|harder] [seed=]  reroll recommendations",
			Method:       "GET",
			PathTemplate: "/api/v1/handles/:handle/recommendations",
			Fields: []Field{
				handle,
				{Name: "tag", Prompt: "tag", Type: FieldString, In: InQuery},
				{Name: "range", Aliases: []string{"mode"}, Prompt: "range", Type: FieldString, In: InQuery},
				seed,
			},
		},
		{
			Name:         "random",
			Summary:      "random [seed=]  random solved problem",
			Method:       "GET",
			PathTemplate: "/api/v1/handles/:handle/random-problem",
			Fields:       []Field{handle, seed},
		},
		{
			Name:         "pick",
			Summary:      "pick rating=<r> [seed=]  solved problem with an exact rating",
			Method:       "GET",
			PathTemplate: "/api/v1/handles/:handle/problem-by-rating",
			Fields: []Field{
				handle,
				{Name: "rating", Aliases: []string{"r"}, Prompt: "rating", Type: FieldInt, In: InQuery, Required: true},
				seed,
			},
		},
		{
			Name:         "compare",
			Summary:      "compare first=<a> second=<b>  compare two handles",
			Method:       "GET",
			PathTemplate: "/api/v1/compare",
			Fields: []Field{
				{Name: "first", Aliases: []string{"a", "handle1"}, Prompt: "first handle", Type: FieldString, In: InQuery, Required: true},
				{Name: "second", Aliases: []string{"b", "handle2"}, Prompt: "second handle", Type: FieldString, In: InQuery, Required: true},
			},
			Render: RenderComparison,
		},
		{
			Name:         "resources",
			Summary:      "resources [level=beginner|intermediate|advanced]  learning material",
			Method:       "GET",
			PathTemplate: "/api/v1/resources",
			Fields: []Field{
				{Name: "level", Prompt: "level", Type: FieldString, In: InQuery},
			},
		},
	}

	result := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		result[cmd.Name] = cmd
	}
	return result
}

// Names returns command names in sorted order.
func Names(commands map[string]Command) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRequest turns a command and its params into an HTTP request.
func BuildRequest(cmd Command, params Params) (RequestSpec, error) {
	params.Canonicalize(cmd.Fields)
	for _, field := range cmd.Fields {
		value := strings.TrimSpace(params.Get(field.Name))
		if value == "" {
			if field.Required {
				return RequestSpec{}, fmt.Errorf("missing parameter: %s", field.Name)
			}
			continue
		}
		if err := field.Validate(value); err != nil {
			return RequestSpec{}, err
		}
	}

	path, err := buildPath(cmd, params)
	if err != nil {
		return RequestSpec{}, err
	}
	if query := buildQuery(cmd, params); query != "" {
		path += "?" + query
	}

	return RequestSpec{
		Method:  cmd.Method,
		Path:    path,
		Headers: map[string]string{},
	}, nil
}

func buildPath(cmd Command, params Params) (string, error) {
	path := cmd.PathTemplate
	for _, field := range cmd.Fields {
		if field.In != InPath {
			continue
		}
		placeholder := ":" + field.Name
		if !strings.Contains(path, placeholder) {
			continue
		}
		value := strings.TrimSpace(params.Get(field.Name))
		if value == "" {
			return "", fmt.Errorf("missing path parameter: %s", field.Name)
		}
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))
	}
	return path, nil
}

func buildQuery(cmd Command, params Params) string {
	values := url.Values{}
	for _, field := range cmd.Fields {
		if field.In != InQuery {
			continue
		}
		if value := strings.TrimSpace(params.Get(field.Name)); value != "" {
			values.Set(field.Name, value)
		}
	}
	return values.Encode()
}
