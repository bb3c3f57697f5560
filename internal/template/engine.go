// Package template renders campaign and template bodies with the Liquid
// template language, the same dialect the mailer platform renders server-side.
// The CLI uses it for offline previews so an editor loop does not need a
// round trip per render.
package template

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/mailerctl/internal/mailer"
)

// Mode determines how the engine handles missing variables.
type Mode int

const (
	// Lax renders missing variables as empty strings (matches what the
	// server does on a real send).
	Lax Mode = iota
	// Strict reports every variable the data does not provide. Used for
	// previews, where a silent blank hides a mistake.
	Strict
)

// Warning flags a template variable with no value in the preview data.
type Warning struct {
	Variable string `json:"variable"`
	Message  string `json:"message"`
}

// Engine renders Liquid templates with the platform's custom filters.
// Parsed templates are cached by body, so repeated previews of the same
// campaign parse once.
type Engine struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewEngine creates an Engine with the platform filter set registered.
func NewEngine() *Engine {
	e := &Engine{engine: liquid.NewEngine()}
	e.registerFilters()
	return e
}

func (e *Engine) registerFilters() {
	// Default value filter: {{ first_name | default: "Friend" }}
	e.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	// Capitalize first letter: {{ first_name | capitalize }}
	e.engine.RegisterFilter("capitalize", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})

	// Truncate with ellipsis: {{ subject | truncate: 40 }}
	e.engine.RegisterFilter("truncate", func(s string, length int) string {
		if length <= 3 || len(s) <= length {
			return s
		}
		return s[:length-3] + "..."
	})

	// URL-encode for tracking links: {{ email | urlencode }}
	e.engine.RegisterFilter("urlencode", func(s string) string {
		return url.QueryEscape(s)
	})

	// HTML-escape user-provided values: {{ first_name | escape }}
	e.engine.RegisterFilter("escape", func(s string) string {
		return html.EscapeString(s)
	})

	// Domain part of an address: {{ email | email_domain }}
	e.engine.RegisterFilter("email_domain", func(email string) string {
		parts := strings.Split(email, "@")
		if len(parts) != 2 {
			return ""
		}
		return parts[1]
	})
}

// ContactData builds the render context the server exposes for a contact.
func ContactData(contact mailer.Contact) map[string]interface{} {
	return map[string]interface{}{
		"email":      contact.Email,
		"first_name": contact.FirstName,
		"last_name":  contact.LastName,
		"phone":      contact.Phone,
	}
}

// Render parses and renders body against data in Lax mode. Parse failures
// return the body unchanged along with the error so a broken template still
// produces visible output.
func (e *Engine) Render(body string, data map[string]interface{}) (string, error) {
	tpl, err := e.parse(body)
	if err != nil {
		return body, err
	}
	out, err := tpl.RenderString(data)
	if err != nil {
		return body, err
	}
	return out, nil
}

// RenderStrict renders body against data and reports every referenced
// variable the data does not provide.
func (e *Engine) RenderStrict(body string, data map[string]interface{}) (string, []Warning, error) {
	warnings := e.missingVariables(body, data)
	out, err := e.Render(body, data)
	if err != nil {
		return body, warnings, err
	}
	return out, warnings, nil
}

func (e *Engine) parse(body string) (*liquid.Template, error) {
	if cached, ok := e.cache.Load(body); ok {
		return cached.(*liquid.Template), nil
	}
	tpl, err := e.engine.ParseString(body)
	if err != nil {
		return nil, err
	}
	e.cache.Store(body, tpl)
	return tpl, nil
}

var variableRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_.]*)`)

func (e *Engine) missingVariables(body string, data map[string]interface{}) []Warning {
	var warnings []Warning
	seen := make(map[string]bool)
	for _, match := range variableRegex.FindAllStringSubmatch(body, -1) {
		name := match[1]
		if seen[name] || isLiquidKeyword(name) {
			continue
		}
		seen[name] = true
		root := strings.SplitN(name, ".", 2)[0]
		if v, ok := data[root]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
			warnings = append(warnings, Warning{
				Variable: name,
				Message:  fmt.Sprintf("no value for %q", name),
			})
		}
	}
	return warnings
}

func isLiquidKeyword(name string) bool {
	switch name {
	case "true", "false", "nil", "null", "empty", "blank", "forloop":
		return true
	}
	return false
}
