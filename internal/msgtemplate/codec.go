package msgtemplate

import "lead-console/internal/model"

// Serialize converts the edited list into the persisted mapping. Entries with
// an empty key are dropped. When keys repeat the later value wins, kept at the
// position where the key first appeared.
func Serialize(items []Binding) model.Variables {
	out := model.Variables{}
	for _, b := range items {
		if b.Key == "" {
			continue
		}
		out = out.Set(b.Key, b.Value)
	}
	return out
}

// Deserialize lists a persisted mapping in its stored key order.
func Deserialize(vars model.Variables) []Binding {
	out := make([]Binding, 0, len(vars))
	for _, v := range vars {
		out = append(out, Binding{Key: v.Key, Value: v.Value})
	}
	return out
}
