package checks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// schemaPrinter formats schema validation error messages.
var schemaPrinter = message.NewPrinter(language.English)

func newJSONSchemaCheck(params map[string]any) (Checker, error) {
	opts := struct {
		Schema string `mapstructure:"schema"`
	}{}
	if err := decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.Schema == "" {
		return nil, errors.New("schema option is required")
	}

	sch, err := compileSchemaFile(opts.Schema)
	if err != nil {
		return nil, err
	}

	desc := "Content conforms to " + filepath.Base(opts.Schema)
	return NewContentCheck("json-schema", desc, func(f File, content []byte) Verdict {
		inst, err := toJSONValue(content)
		if err != nil {
			return Fail(desc, "%s cannot be parsed: %v", f.RelPath, err)
		}
		errs := validateAgainstSchema(sch, inst)
		if len(errs) == 0 {
			return Pass(desc)
		}
		v := Fail(desc, "%s has %d schema violation(s), first: %s", f.RelPath, len(errs), errs[0])
		v.Detail = strings.Join(errs, "\n")
		return v
	}), nil
}

func compileSchemaFile(path string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving schema path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	doc, err := toJSONValue(data)
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(abs, doc); err != nil {
		return nil, fmt.Errorf("adding schema %s: %w", path, err)
	}
	sch, err := compiler.Compile(abs)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}
	return sch, nil
}

// toJSONValue parses JSON or YAML content into the value model jsonschema
// expects. YAML is routed through encoding/json so numbers end up as
// json.Number like they do for JSON input.
func toJSONValue(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(schemaPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
