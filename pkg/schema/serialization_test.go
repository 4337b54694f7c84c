package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleBundle() Bundle {
	def := ParseValue("10")
	return Bundle{
		Shape: BlockSchema{
			Type:    "custom_move",
			Message: "move %1 steps %2",
			Args: []Arg{
				{Type: "input_value", Name: "STEPS", HasCheck: true},
				{Type: "field_dropdown", Name: "DIR", Options: []Option{{"Left", "LEFT"}, {"Right", "RIGHT"}}},
				{Type: "field_number", Name: "N", Default: &def},
			},
			PreviousStatement: true,
			NextStatement:     true,
			InputsInline:      true,
			Colour:            "#4C97FF",
			Tooltip:           "moves",
		},
		Codegen: Codegen{Template: "move({STEPS})\n"},
	}
}

func TestBlockSchema_KeyOrderAndPresence(t *testing.T) {
	data, err := json.Marshal(sampleBundle().Shape)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"type":"custom_move","message0":"move %1 steps %2","args0":[` +
		`{"type":"input_value","name":"STEPS","check":null},` +
		`{"type":"field_dropdown","name":"DIR","options":[["Left","LEFT"],["Right","RIGHT"]]},` +
		`{"type":"field_number","name":"N","default":10}],` +
		`"previousStatement":null,"nextStatement":null,"inputsInline":true,"colour":"#4C97FF","tooltip":"moves"}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestBlockSchema_OutputMarker(t *testing.T) {
	s := BlockSchema{Type: "custom_sum", Output: true}
	doc := s.Document()

	v, ok := doc.Get(KeyOutput)
	if !ok {
		t.Fatal("output key must be present")
	}
	if v != nil {
		t.Errorf("output = %#v, want nil (any type)", v)
	}
	if _, ok := doc.Get(KeyPreviousStatement); ok {
		t.Error("previousStatement must be omitted")
	}

	s.OutputType = "Number"
	v, _ = s.Document().Get(KeyOutput)
	if v != "Number" {
		t.Errorf("output = %#v, want Number", v)
	}
}

func TestBundle_MarshalIndentJSON(t *testing.T) {
	data, err := sampleBundle().MarshalIndentJSON()
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "{\n  \"shapeSchema\": {\n    \"type\": \"custom_move\"") {
		t.Errorf("unexpected layout:\n%s", text)
	}
	if !strings.Contains(text, `"codegen": {`) || !strings.Contains(text, `"producesValue": false`) {
		t.Errorf("codegen missing:\n%s", text)
	}
}

func TestBundle_JSONRoundTrip(t *testing.T) {
	in := sampleBundle()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out Bundle
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestBundle_YAMLRoundTrip(t *testing.T) {
	in := sampleBundle()
	in.Shape.Output = true
	in.Shape.OutputType = "Boolean"
	in.Shape.PreviousStatement = false
	in.Shape.NextStatement = false
	in.Codegen.ProducesValue = true

	data, err := in.EncodeYAML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "shapeSchema:\n  type: custom_move\n") {
		t.Errorf("unexpected yaml layout:\n%s", data)
	}

	out, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestFromMap_BareShape(t *testing.T) {
	raw := map[string]any{
		"type":     "custom_x",
		"message0": "x %1",
		"args0": []any{
			map[string]any{"type": "field_input", "name": "T", "default": "hi"},
		},
		"output": "String",
	}
	b, err := FromMap(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Shape.Output || b.Shape.OutputType != "String" {
		t.Errorf("output = %v/%q", b.Shape.Output, b.Shape.OutputType)
	}
	if !b.Codegen.ProducesValue {
		t.Error("ProducesValue should follow output when codegen is absent")
	}
	if b.Shape.Args[0].Default == nil || b.Shape.Args[0].Default.String() != "hi" {
		t.Errorf("default = %+v", b.Shape.Args[0].Default)
	}
}

func TestFromMap_Errors(t *testing.T) {
	raw := map[string]any{
		"type":  42.5,
		"args0": []any{"not-an-object", map[string]any{"type": "field_dropdown", "name": "D", "options": []any{"bad"}}},
	}
	_, err := FromMap(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	// A number for "type" is tolerated, the two malformed args are not.
	if n := len(ValidationErrors(err)); n != 2 {
		t.Errorf("got %d errors, want 2: %v", n, err)
	}
}

func TestLint(t *testing.T) {
	if err := Lint(sampleBundle()); err != nil {
		t.Errorf("Lint() = %v, want nil", err)
	}

	b := sampleBundle()
	b.Shape.Args = append(b.Shape.Args,
		Arg{Type: "", Name: "steps"},
		Arg{Type: "field_dropdown", Name: "", Options: []Option{{"", "X"}}},
	)
	err := Lint(b)
	errs := ValidationErrors(err)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), err)
	}
	ve, ok := errs[1].(*ValidationError)
	if !ok || !strings.Contains(ve.Reason, "duplicates") {
		t.Errorf("second error = %v, want duplicate name", errs[1])
	}
}
