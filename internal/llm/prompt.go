// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// SystemData holds the values injected into the system prompt template.
type SystemData struct {
	ExportMarker string   // Required export marker, e.g. "export default"
	RootWrapper  string   // Required root element, e.g. "Html"
	Colors       []string // "name: #hex" lines from the registry
}

// RefineData holds the values injected into one refinement request.
type RefineData struct {
	Code       string            // Current document
	Request    types.EditRequest // What the user asked for
	Selected   string            // Source of the selected element, if any
	Strictness string            // Attempt-specific instructions
	Feedback   string            // Problems of the previous candidate
}

// RenderSystemPrompt renders the system prompt template with the given data.
func RenderSystemPrompt(data SystemData) (string, error) {
	if data.ExportMarker == "" {
		data.ExportMarker = "export default"
	}
	if data.RootWrapper == "" {
		data.RootWrapper = "Html"
	}
	return render("system.tmpl", data)
}

// BuildRefineMessages builds the conversation for one slow-path attempt:
// the system prompt followed by a single user message carrying the
// document, the request, and any feedback from the previous attempt.
func BuildRefineMessages(system string, data RefineData) ([]types.Message, error) {
	data.Code = strings.TrimRight(data.Code, "\n")
	user, err := render("refine.tmpl", data)
	if err != nil {
		return nil, err
	}
	return []types.Message{
		{Role: types.RoleSystem, Content: system},
		{Role: types.RoleUser, Content: user},
	}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.String(), nil
}
