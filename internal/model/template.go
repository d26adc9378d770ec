package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// MessageTemplate is the message sent to every lead of one ad.
// ID is nil until the template has been persisted.
type MessageTemplate struct {
	ID           *int64    `json:"id,omitempty"`
	AdID         int64     `json:"ad_id"`
	TemplateName string    `json:"template_name"`
	MessageText  string    `json:"message_text"`
	Variables    Variables `json:"variables"`
	IsActive     *bool     `json:"is_active,omitempty"`
	CreatedAt    string    `json:"created_at,omitempty"`
	UpdatedAt    string    `json:"updated_at,omitempty"`
}

// Variable is one named default value of a template.
type Variable struct {
	Key   string
	Value string
}

// Variables is a mapping from variable name to default value that keeps the
// order in which keys were inserted. It encodes as a JSON object.
type Variables []Variable

// Get returns the value stored under key.
func (vs Variables) Get(key string) (string, bool) {
	for _, v := range vs {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// Set inserts key or overwrites its value in place.
func (vs Variables) Set(key, value string) Variables {
	for i := range vs {
		if vs[i].Key == key {
			vs[i].Value = value
			return vs
		}
	}
	return append(vs, Variable{Key: key, Value: value})
}

// Map returns an unordered copy.
func (vs Variables) Map() map[string]string {
	m := make(map[string]string, len(vs))
	for _, v := range vs {
		m[v.Key] = v.Value
	}
	return m
}

func (vs Variables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(v.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping its key order as written.
func (vs *Variables) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*vs = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("variables: expected object, got %s", res.Type)
	}
	out := Variables{}
	res.ForEach(func(key, value gjson.Result) bool {
		out = out.Set(key.String(), value.String())
		return true
	})
	*vs = out
	return nil
}

// TemplatePreview is the server-side rendering of a stored template.
type TemplatePreview struct {
	Original     string   `json:"original"`
	Preview      string   `json:"preview"`
	Placeholders []string `json:"placeholders"`
}
