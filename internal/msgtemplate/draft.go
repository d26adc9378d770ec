package msgtemplate

import (
	"context"
	"fmt"
	"strings"

	"lead-console/internal/model"
)

// ValidationError reports required template fields left empty. It is raised
// before any request is made.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Saver persists templates. Create is used for an ad without a template,
// Update for one that already has one.
type Saver interface {
	CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, t model.MessageTemplate) (model.MessageTemplate, error)
}

// Draft is the in-memory template being edited for one ad. Every change to
// the body or the variables recomputes the preview.
type Draft struct {
	id       *int64
	adID     int64
	name     string
	text     string
	bindings *Bindings
	preview  string
}

// NewDraft starts an empty template for adID.
func NewDraft(adID int64) *Draft {
	d := &Draft{adID: adID, bindings: NewBindings()}
	d.recompute()
	return d
}

// LoadDraft opens an existing template for editing.
func LoadDraft(t model.MessageTemplate) *Draft {
	d := &Draft{
		adID:     t.AdID,
		name:     t.TemplateName,
		text:     t.MessageText,
		bindings: NewBindings(Deserialize(t.Variables)...),
	}
	if t.ID != nil {
		id := *t.ID
		d.id = &id
	}
	d.recompute()
	return d
}

// AdID returns the ad the draft belongs to.
func (d *Draft) AdID() int64 { return d.adID }

// ID returns the persisted template id, if any.
func (d *Draft) ID() (int64, bool) {
	if d.id == nil {
		return 0, false
	}
	return *d.id, true
}

// IsNew reports whether the template has never been saved.
func (d *Draft) IsNew() bool { return d.id == nil }

func (d *Draft) TemplateName() string { return d.name }
func (d *Draft) MessageText() string  { return d.text }

// Variables returns a copy of the custom variable list.
func (d *Draft) Variables() []Binding { return d.bindings.Items() }

// Preview returns the rendered message with sample data.
func (d *Draft) Preview() string { return d.preview }

// Unresolved lists placeholders in the body that the preview could not fill.
func (d *Draft) Unresolved() []string {
	return Placeholders(d.preview)
}

func (d *Draft) SetTemplateName(name string) {
	d.name = name
}

func (d *Draft) SetMessageText(text string) {
	d.text = text
	d.recompute()
}

// InsertPlaceholder appends the token for name to the body.
func (d *Draft) InsertPlaceholder(name string) {
	d.text += Token(name)
	d.recompute()
}

func (d *Draft) AppendVariable() {
	d.bindings.Append()
	d.recompute()
}

func (d *Draft) UpdateVariable(index int, field Field, value string) {
	d.bindings.Update(index, field, value)
	d.recompute()
}

func (d *Draft) RemoveVariable(index int) {
	d.bindings.Remove(index)
	d.recompute()
}

func (d *Draft) recompute() {
	d.preview = Render(d.text, d.bindings.Items())
}

// Template returns the persisted shape of the draft.
func (d *Draft) Template() model.MessageTemplate {
	t := model.MessageTemplate{
		AdID:         d.adID,
		TemplateName: d.name,
		MessageText:  d.text,
		Variables:    Serialize(d.bindings.Items()),
	}
	if d.id != nil {
		id := *d.id
		t.ID = &id
	}
	return t
}

// Validate checks the fields required to save.
func (d *Draft) Validate() error {
	var missing []string
	if d.name == "" {
		missing = append(missing, "template_name")
	}
	if d.text == "" {
		missing = append(missing, "message_text")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Save validates the draft and creates or updates it through s. On success
// the saved template becomes the new baseline.
func (d *Draft) Save(ctx context.Context, s Saver) (model.MessageTemplate, error) {
	if err := d.Validate(); err != nil {
		return model.MessageTemplate{}, err
	}
	in := d.Template()
	var (
		out model.MessageTemplate
		err error
	)
	if d.id == nil {
		out, err = s.CreateTemplate(ctx, in)
	} else {
		out, err = s.UpdateTemplate(ctx, *d.id, in)
	}
	if err != nil {
		return model.MessageTemplate{}, fmt.Errorf("save template for ad %d: %w", d.adID, err)
	}
	if out.ID != nil {
		id := *out.ID
		d.id = &id
	}
	return out, nil
}
