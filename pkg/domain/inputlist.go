package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// InputList is the ordered collection of inputs of a definition.
// Ids come from a counter that only moves forward, so a removed id is never handed out again.
type InputList struct {
	items  []InputDefinition
	nextID int
}

// Add appends a new input of the given kind and returns a copy of it.
// The generated name is the kind's trailing word plus the input's 1-based position.
func (l *InputList) Add(kind InputKind) InputDefinition {
	pos := len(l.items) + 1
	in := InputDefinition{
		ID:   l.nextID,
		Kind: kind,
		Name: strings.ToUpper(kind.word()) + strconv.Itoa(pos),
	}
	l.nextID++

	if kind == KindFieldDropdown {
		in.Options = []Option{
			{Label: "option1", Value: "OPTION1"},
			{Label: "option2", Value: "OPTION2"},
		}
	}
	if kind.IsField() {
		empty := ""
		in.Default = &empty
	}

	l.items = append(l.items, in)
	return in.Clone()
}

// Remove deletes the input with the given id. Remaining ids are left untouched.
func (l *InputList) Remove(id int) error {
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrInputNotFound, id)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	if len(l.items) == 0 {
		l.items = nil
	}
	return nil
}

// Update sets one property of the input with the given id.
func (l *InputList) Update(id int, key, raw string) error {
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrInputNotFound, id)
	}
	return l.items[i].Set(key, raw)
}

// Edit applies fn to the input with the given id. The id itself cannot be changed.
func (l *InputList) Edit(id int, fn func(*InputDefinition)) error {
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrInputNotFound, id)
	}
	fn(&l.items[i])
	l.items[i].ID = id
	return nil
}

// Get returns a copy of the input with the given id.
func (l *InputList) Get(id int) (InputDefinition, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return InputDefinition{}, false
	}
	return l.items[i].Clone(), true
}

// At returns the input at a 1-based position, as referenced by a %N placeholder.
func (l *InputList) At(pos int) (InputDefinition, bool) {
	if pos < 1 || pos > len(l.items) {
		return InputDefinition{}, false
	}
	return l.items[pos-1], true
}

// Len returns the number of inputs.
func (l *InputList) Len() int { return len(l.items) }

// NextID returns the id the next Add will assign.
func (l *InputList) NextID() int { return l.nextID }

// Items returns a copy of the inputs in order, or nil when the list is empty.
func (l *InputList) Items() []InputDefinition {
	if len(l.items) == 0 {
		return nil
	}
	out := make([]InputDefinition, len(l.items))
	for i, in := range l.items {
		out[i] = in.Clone()
	}
	return out
}

// Clone returns a deep copy of the list, counter included.
func (l *InputList) Clone() InputList {
	return InputList{items: l.Items(), nextID: l.nextID}
}

func (l *InputList) indexOf(id int) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

type inputListJSON struct {
	Items  []InputDefinition `json:"items"`
	NextID int               `json:"next_id"`
}

// MarshalJSON persists the counter alongside the items.
func (l InputList) MarshalJSON() ([]byte, error) {
	items := l.items
	if items == nil {
		items = []InputDefinition{}
	}
	return json.Marshal(inputListJSON{Items: items, NextID: l.nextID})
}

// UnmarshalJSON restores a list, never letting the counter fall behind the stored ids.
func (l *InputList) UnmarshalJSON(data []byte) error {
	var raw inputListJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode input list: %w", err)
	}
	l.items = nil
	if len(raw.Items) > 0 {
		l.items = raw.Items
	}
	l.nextID = raw.NextID
	for _, in := range l.items {
		if in.ID >= l.nextID {
			l.nextID = in.ID + 1
		}
	}
	return nil
}
