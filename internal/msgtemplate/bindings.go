package msgtemplate

// Field selects which half of a binding an update targets.
type Field string

const (
	FieldKey   Field = "key"
	FieldValue Field = "value"
)

// Bindings is the ordered, index-addressable list of custom variables being
// edited. Duplicate keys are allowed here; they are resolved by Serialize.
type Bindings struct {
	items []Binding
}

// NewBindings copies items into a new list.
func NewBindings(items ...Binding) *Bindings {
	b := &Bindings{items: make([]Binding, 0, len(items))}
	b.items = append(b.items, items...)
	return b
}

// Len returns the number of bindings.
func (b *Bindings) Len() int { return len(b.items) }

// At returns the binding at index.
func (b *Bindings) At(index int) (Binding, bool) {
	if index < 0 || index >= len(b.items) {
		return Binding{}, false
	}
	return b.items[index], true
}

// Items returns a copy of the list.
func (b *Bindings) Items() []Binding {
	out := make([]Binding, len(b.items))
	copy(out, b.items)
	return out
}

// Append adds an empty binding at the end.
func (b *Bindings) Append() {
	b.items = append(b.items, Binding{})
}

// Update sets one field of the binding at index. Out-of-range indexes and
// unknown fields are ignored.
func (b *Bindings) Update(index int, field Field, value string) {
	if index < 0 || index >= len(b.items) {
		return
	}
	switch field {
	case FieldKey:
		b.items[index].Key = value
	case FieldValue:
		b.items[index].Value = value
	}
}

// Remove deletes the binding at index, shifting later ones down.
func (b *Bindings) Remove(index int) {
	if index < 0 || index >= len(b.items) {
		return
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
}
