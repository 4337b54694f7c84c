package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Document is an insertion-ordered JSON/YAML object.
type Document = orderedmap.OrderedMap[string, any]

func newDocument() *Document {
	return orderedmap.New[string, any]()
}

// nullable maps the empty string to null, the wildcard of the block editor.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Document renders the argument with its optional keys omitted.
func (a Arg) Document() *Document {
	doc := newDocument()
	doc.Set(KeyArgType, a.Type)
	doc.Set(KeyArgName, a.Name)
	if a.Default != nil {
		doc.Set(KeyArgDefault, a.Default.Interface())
	}
	if a.Options != nil {
		doc.Set(KeyArgOptions, a.Options)
	}
	if a.HasCheck {
		doc.Set(KeyArgCheck, nullable(a.Check))
	}
	return doc
}

// Document renders the shape description in its canonical key order.
func (s BlockSchema) Document() *Document {
	doc := newDocument()
	doc.Set(KeyType, s.Type)
	doc.Set(KeyMessage, s.Message)

	args := make([]*Document, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.Document()
	}
	doc.Set(KeyArgs, args)

	if s.PreviousStatement {
		doc.Set(KeyPreviousStatement, nil)
	}
	if s.NextStatement {
		doc.Set(KeyNextStatement, nil)
	}
	if s.Output {
		doc.Set(KeyOutput, nullable(s.OutputType))
	}
	doc.Set(KeyInputsInline, s.InputsInline)
	doc.Set(KeyColour, s.Colour)
	doc.Set(KeyTooltip, s.Tooltip)
	return doc
}

// Document renders the codegen descriptor.
func (c Codegen) Document() *Document {
	doc := newDocument()
	doc.Set(KeyTemplate, c.Template)
	doc.Set(KeyProducesValue, c.ProducesValue)
	return doc
}

// Document renders the whole artifact.
func (b Bundle) Document() *Document {
	doc := newDocument()
	doc.Set(KeyShape, b.Shape.Document())
	doc.Set(KeyCodegen, b.Codegen.Document())
	return doc
}

// MarshalJSON serializes the shape description only.
func (s BlockSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// MarshalJSON serializes the artifact in compact form.
func (b Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Document())
}

// MarshalIndentJSON serializes the artifact pretty-printed with two-space indentation.
func (b Bundle) MarshalIndentJSON() ([]byte, error) {
	return json.MarshalIndent(b.Document(), "", "  ")
}

// MarshalYAML lets yaml.v3 encode the artifact with the same key order as JSON.
func (b Bundle) MarshalYAML() (any, error) {
	return b.Document(), nil
}

// EncodeYAML serializes the artifact as a YAML document.
func (b Bundle) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an artifact; see FromMap for the accepted shapes.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// DecodeJSON decodes an artifact from JSON.
func DecodeJSON(data []byte) (Bundle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Bundle{}, fmt.Errorf("failed to parse json: %w", err)
	}
	return FromMap(raw)
}

// DecodeYAML decodes an artifact from YAML.
func DecodeYAML(data []byte) (Bundle, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Bundle{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return FromMap(raw)
}

// FromMap decodes a generic object into a Bundle. It accepts the full artifact
// ({shapeSchema, codegen}) or a bare shape description. Key presence is significant:
// a previousStatement key with a null value still means "has a previous connection".
func FromMap(raw map[string]any) (Bundle, error) {
	if raw == nil {
		return Bundle{}, fmt.Errorf("schema: empty document")
	}

	d := &decoder{}
	shapeRaw := raw
	var b Bundle

	if v, ok := raw[KeyShape]; ok {
		shapeRaw = d.object(v, KeyShape)
		if cg, ok := raw[KeyCodegen]; ok {
			cgRaw := d.object(cg, KeyCodegen)
			b.Codegen.Template = d.str(cgRaw, KeyTemplate, KeyCodegen+"."+KeyTemplate)
			b.Codegen.ProducesValue = d.boolean(cgRaw, KeyProducesValue, KeyCodegen+"."+KeyProducesValue)
		}
	}

	b.Shape = d.shape(shapeRaw)
	if _, ok := raw[KeyCodegen]; !ok {
		b.Codegen.ProducesValue = b.Shape.Output
	}

	if len(d.errs) > 0 {
		return Bundle{}, &AggregateError{Errors: d.errs}
	}
	return b, nil
}

type decoder struct {
	errs []error
}

func (d *decoder) fail(path, reason string, value any) {
	d.errs = append(d.errs, &ValidationError{Key: path, Reason: reason, Value: value})
}

func (d *decoder) object(v any, path string) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		d.fail(path, "expected object", v)
		return map[string]any{}
	}
	return m
}

func (d *decoder) str(m map[string]any, key, path string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	d.fail(path, "expected string", v)
	return ""
}

func (d *decoder) boolean(m map[string]any, key, path string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, "expected bool", v)
	}
	return b
}

func (d *decoder) shape(m map[string]any) BlockSchema {
	s := BlockSchema{
		Type:         d.str(m, KeyType, KeyType),
		Message:      d.str(m, KeyMessage, KeyMessage),
		InputsInline: d.boolean(m, KeyInputsInline, KeyInputsInline),
		Colour:       d.str(m, KeyColour, KeyColour),
		Tooltip:      d.str(m, KeyTooltip, KeyTooltip),
	}
	_, s.PreviousStatement = m[KeyPreviousStatement]
	_, s.NextStatement = m[KeyNextStatement]
	if _, ok := m[KeyOutput]; ok {
		s.Output = true
		s.OutputType = d.str(m, KeyOutput, KeyOutput)
	}

	if v, ok := m[KeyArgs]; ok && v != nil {
		list, ok := v.([]any)
		if !ok {
			d.fail(KeyArgs, "expected list", v)
			return s
		}
		s.Args = make([]Arg, 0, len(list))
		for i, item := range list {
			path := fmt.Sprintf("%s[%d]", KeyArgs, i)
			s.Args = append(s.Args, d.arg(d.object(item, path), path))
		}
	}
	return s
}

func (d *decoder) arg(m map[string]any, path string) Arg {
	a := Arg{
		Type: d.str(m, KeyArgType, path+"."+KeyArgType),
		Name: d.str(m, KeyArgName, path+"."+KeyArgName),
	}
	if v, ok := m[KeyArgDefault]; ok && v != nil {
		val := d.value(v, path+"."+KeyArgDefault)
		a.Default = &val
	}
	if v, ok := m[KeyArgOptions]; ok && v != nil {
		a.Options = d.options(v, path+"."+KeyArgOptions)
	}
	if _, ok := m[KeyArgCheck]; ok {
		a.HasCheck = true
		a.Check = d.str(m, KeyArgCheck, path+"."+KeyArgCheck)
	}
	return a
}

func (d *decoder) value(v any, path string) Value {
	switch n := v.(type) {
	case string:
		return String(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) {
			return String(n.String())
		}
		return Number(f)
	case float64:
		return Number(n)
	case int:
		return Number(float64(n))
	case int64:
		return Number(float64(n))
	case bool:
		return String(strconv.FormatBool(n))
	}
	d.fail(path, "expected number or string", v)
	return String("")
}

func (d *decoder) options(v any, path string) []Option {
	list, ok := v.([]any)
	if !ok {
		d.fail(path, "expected list of [label, value] pairs", v)
		return nil
	}
	opts := make([]Option, 0, len(list))
	for i, item := range list {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		pair, ok := item.([]any)
		if !ok || len(pair) == 0 || len(pair) > 2 {
			d.fail(itemPath, "expected [label, value] pair", item)
			continue
		}
		label, ok := pair[0].(string)
		if !ok {
			d.fail(itemPath, "expected string label", pair[0])
			continue
		}
		value := label
		if len(pair) == 2 {
			if s, ok := pair[1].(string); ok {
				value = s
			} else {
				d.fail(itemPath, "expected string value", pair[1])
				continue
			}
		}
		opts = append(opts, Option{label, value})
	}
	return opts
}
