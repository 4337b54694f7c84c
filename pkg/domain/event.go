package domain

// Field identifies an editable property of the definition.
type Field string

const (
	FieldName           Field = "name"
	FieldTooltip        Field = "tooltip"
	FieldColor          Field = "color"
	FieldStyle          Field = "style"
	FieldInputsInline   Field = "inputsInline"
	FieldPythonTemplate Field = "pythonTemplate"
	FieldOutput         Field = "output"
	FieldOutputType     Field = "outputType"
	FieldPrevious       Field = "previous"
	FieldNext           Field = "next"
)

// Fields lists every editable field.
func Fields() []Field {
	return []Field{
		FieldName, FieldTooltip, FieldColor, FieldStyle, FieldInputsInline,
		FieldPythonTemplate, FieldOutput, FieldOutputType, FieldPrevious, FieldNext,
	}
}

// IsBool reports whether the field holds a boolean toggle.
func (f Field) IsBool() bool {
	switch f {
	case FieldInputsInline, FieldOutput, FieldPrevious, FieldNext:
		return true
	}
	return false
}

// EventKind enumerates the editing events a session accepts.
type EventKind string

const (
	// EventSetField is a (fieldId, newValue) change.
	EventSetField EventKind = "set_field"
	// EventAddInput appends an input of kind Value.
	EventAddInput EventKind = "add_input"
	// EventRemoveInput deletes the input Target.
	EventRemoveInput EventKind = "remove_input"
	// EventUpdateInput sets property Key of input Target to Value.
	EventUpdateInput EventKind = "update_input"
)

// Event is one user interaction against a definition.
type Event struct {
	Kind   EventKind `json:"kind" mapstructure:"kind"`
	Field  Field     `json:"field,omitempty" mapstructure:"field"`
	Target int       `json:"target,omitempty" mapstructure:"target"`
	Key    string    `json:"key,omitempty" mapstructure:"key"`
	Value  string    `json:"value,omitempty" mapstructure:"value"`
}

// SetField builds a field change event.
func SetField(f Field, value string) Event {
	return Event{Kind: EventSetField, Field: f, Value: value}
}

// AddInput builds an add-input event.
func AddInput(kind InputKind) Event {
	return Event{Kind: EventAddInput, Value: string(kind)}
}

// RemoveInput builds a remove-input event.
func RemoveInput(id int) Event {
	return Event{Kind: EventRemoveInput, Target: id}
}

// UpdateInput builds an update-input event.
func UpdateInput(id int, key, value string) Event {
	return Event{Kind: EventUpdateInput, Target: id, Key: key, Value: value}
}
