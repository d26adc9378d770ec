// Package tmplfile reads and writes message templates as text files: YAML
// frontmatter between two "---" lines followed by the message body.
//
//	---
//	ad_id: 3
//	template_name: Welcome
//	variables:
//	  coupon: SAVE10
//	---
//	Hi {{first_name}}, use {{coupon}} at checkout.
package tmplfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lead-console/internal/model"
)

const delimiter = "---"

type frontmatter struct {
	ID           *int64    `yaml:"id,omitempty"`
	AdID         int64     `yaml:"ad_id"`
	TemplateName string    `yaml:"template_name"`
	Variables    yaml.Node `yaml:"variables,omitempty"`
}

// Parse reads a template file from path.
func Parse(path string) (model.MessageTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.MessageTemplate{}, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return model.MessageTemplate{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a template file. The variables mapping keeps its file order.
func Read(r io.Reader) (model.MessageTemplate, error) {
	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return model.MessageTemplate{}, err
	}
	if strings.TrimSpace(first) != delimiter {
		return model.MessageTemplate{}, errors.New("missing frontmatter")
	}

	var fm bytes.Buffer
	closed := false
	for {
		l, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return model.MessageTemplate{}, err
		}
		if strings.TrimSpace(l) == delimiter {
			closed = true
			break
		}
		fm.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
	}
	if !closed {
		return model.MessageTemplate{}, errors.New("unterminated frontmatter")
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return model.MessageTemplate{}, err
	}

	var meta frontmatter
	if err := yaml.Unmarshal(fm.Bytes(), &meta); err != nil {
		return model.MessageTemplate{}, fmt.Errorf("frontmatter: %w", err)
	}
	if meta.AdID <= 0 {
		return model.MessageTemplate{}, errors.New("frontmatter: ad_id must be a positive integer")
	}
	vars, err := decodeVariables(&meta.Variables)
	if err != nil {
		return model.MessageTemplate{}, err
	}
	return model.MessageTemplate{
		ID:           meta.ID,
		AdID:         meta.AdID,
		TemplateName: meta.TemplateName,
		MessageText:  string(body),
		Variables:    vars,
	}, nil
}

func decodeVariables(n *yaml.Node) (model.Variables, error) {
	vars := model.Variables{}
	if n.Kind == 0 || n.Tag == "!!null" {
		return vars, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter: variables must be a mapping (line %d)", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("frontmatter: variable %q must be a plain value (line %d)", k.Value, v.Line)
		}
		value := v.Value
		if v.Tag == "!!null" {
			value = ""
		}
		vars = vars.Set(k.Value, value)
	}
	return vars, nil
}

// Write encodes t as a template file.
func Write(w io.Writer, t model.MessageTemplate) error {
	vars := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, v := range t.Variables {
		vars.Content = append(vars.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Value},
		)
	}
	meta := frontmatter{ID: t.ID, AdID: t.AdID, TemplateName: t.TemplateName, Variables: *vars}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(t.MessageText)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes t to path.
func WriteFile(path string, t model.MessageTemplate) error {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
