package checks

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// ErrUnknownCheck is returned when no factory is registered under a name.
var ErrUnknownCheck = errors.New("unknown check")

// Factory builds a Checker from user-supplied options. Options come from the
// config file or from --option flags, so values may arrive as strings.
type Factory func(params map[string]any) (Checker, error)

type registration struct {
	summary string
	factory Factory
}

// Registry maps check names to their factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a factory under name.
func (r *Registry) Register(name, summary string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("check %q is already registered", name)
	}
	r.entries[name] = registration{summary: summary, factory: factory}
	return nil
}

// MustRegister is like Register but panics on a duplicate name.
func (r *Registry) MustRegister(name, summary string, factory Factory) {
	if err := r.Register(name, summary, factory); err != nil {
		panic(err)
	}
}

// Create builds the check registered under name.
func (r *Registry) Create(name string, params map[string]any) (Checker, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCheck, name)
	}

	c, err := entry.factory(params)
	if err != nil {
		return nil, fmt.Errorf("configuring check %q: %w", name, err)
	}
	return c, nil
}

// Names returns the registered check names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns the one-line help text of a registered check.
func (r *Registry) Summary(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name].summary
}

// DefaultRegistry holds the built-in checks.
var DefaultRegistry = NewRegistry()

func init() {
	registerBuiltins(DefaultRegistry)
}

// Create builds a check from the default registry.
func Create(name string, params map[string]any) (Checker, error) {
	return DefaultRegistry.Create(name, params)
}

// Names lists the checks in the default registry.
func Names() []string {
	return DefaultRegistry.Names()
}

func registerBuiltins(r *Registry) {
	r.MustRegister("line-endings", "Reject line endings other than the configured one (eol: lf|crlf|cr)", newLineEndingsCheck)
	r.MustRegister("trailing-whitespace", "Reject lines that end in spaces or tabs", noOptions(newTrailingWhitespaceCheck))
	r.MustRegister("final-newline", "Require non-empty files to end with a newline", noOptions(newFinalNewlineCheck))
	r.MustRegister("no-tabs", "Reject tab characters in line indentation", noOptions(newNoTabsCheck))
	r.MustRegister("max-line-length", "Reject lines wider than max display columns (max: 120)", newMaxLineLengthCheck)
	r.MustRegister("bom", "Reject files that start with a byte-order mark", noOptions(newBOMCheck))
	r.MustRegister("encoding", "Require content to decode cleanly in charset (charset: utf-8)", newEncodingCheck)
	r.MustRegister("json", "Require content to be valid JSON", noOptions(newJSONCheck))
	r.MustRegister("yaml", "Require content to be valid YAML", noOptions(newYAMLCheck))
	r.MustRegister("xml", "Require well-formed XML, optionally matching an XPath (require: //expr)", newXMLCheck)
	r.MustRegister("json-schema", "Validate JSON or YAML content against a JSON Schema (schema: path)", newJSONSchemaCheck)
}

// decodeOptions decodes params into out. Unknown keys are rejected and
// string values are converted, since --option flags are always strings.
func decodeOptions(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

func noOptions(build func() Checker) Factory {
	return func(params map[string]any) (Checker, error) {
		if len(params) > 0 {
			return nil, errors.New("check takes no options")
		}
		return build(), nil
	}
}
