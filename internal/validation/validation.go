// Package validation checks request bodies against embedded JSON Schemas
// before they are decoded into DTOs.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema names, one per request body.
const (
	Register    = "register"
	Login       = "login"
	MCQSave     = "mcq_save"
	GuestResult = "guest_result"
	GeminiText  = "gemini_text"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

var printer = message.NewPrinter(language.English)

// Error describes the first failing field of a request body.
type Error struct {
	Schema  string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validate checks body against the named schema. Failures are returned as
// *Error; a schema that cannot be loaded is returned as a plain error.
func Validate(name string, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Error{Schema: name, Message: "request body is required"}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return &Error{Schema: name, Message: "invalid JSON body"}
	}

	compiled, err := compile(name)
	if err != nil {
		return err
	}

	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return toError(name, verr)
		}
		return &Error{Schema: name, Message: err.Error()}
	}
	return nil
}

// Decode validates body against the named schema and unmarshals it into v.
func Decode(name string, body []byte, v any) error {
	if err := Validate(name, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Schema: name, Message: "invalid JSON body"}
	}
	return nil
}

func compile(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// toError reports the deepest first cause, which names the offending field.
func toError(name string, verr *jsonschema.ValidationError) *Error {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &Error{
		Schema:  name,
		Field:   strings.Join(leaf.InstanceLocation, "."),
		Message: leaf.ErrorKind.LocalizedString(printer),
	}
}
