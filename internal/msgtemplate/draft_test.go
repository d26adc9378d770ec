package msgtemplate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-console/internal/model"
)

type fakeSaver struct {
	created []model.MessageTemplate
	updated []model.MessageTemplate
	ids     []int64
	err     error
}

func (f *fakeSaver) CreateTemplate(_ context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	f.created = append(f.created, t)
	if f.err != nil {
		return model.MessageTemplate{}, f.err
	}
	id := int64(42)
	t.ID = &id
	return t, nil
}

func (f *fakeSaver) UpdateTemplate(_ context.Context, id int64, t model.MessageTemplate) (model.MessageTemplate, error) {
	f.updated = append(f.updated, t)
	f.ids = append(f.ids, id)
	if f.err != nil {
		return model.MessageTemplate{}, f.err
	}
	t.ID = &id
	return t, nil
}

func TestDraftPreviewFollowsEdits(t *testing.T) {
	d := NewDraft(3)
	assert.Equal(t, "", d.Preview())

	d.SetMessageText("Hi ")
	d.InsertPlaceholder("first_name")
	assert.Equal(t, "Hi {{first_name}}", d.MessageText())
	assert.Equal(t, "Hi John", d.Preview())

	d.SetMessageText("Use {{coupon}}")
	d.AppendVariable()
	d.UpdateVariable(0, FieldKey, "coupon")
	assert.Equal(t, "Use {{coupon}}", d.Preview())
	assert.Equal(t, []string{"coupon"}, d.Unresolved())

	d.UpdateVariable(0, FieldValue, "SAVE10")
	assert.Equal(t, "Use SAVE10", d.Preview())
	assert.Empty(t, d.Unresolved())

	d.RemoveVariable(0)
	assert.Equal(t, "Use {{coupon}}", d.Preview())
}

func TestLoadDraft(t *testing.T) {
	id := int64(9)
	d := LoadDraft(model.MessageTemplate{
		ID:           &id,
		AdID:         3,
		TemplateName: "Welcome",
		MessageText:  "Hi {{first_name}}, {{offer}}",
		Variables:    model.Variables{{Key: "offer", Value: "10% off"}},
	})
	assert.False(t, d.IsNew())
	got, ok := d.ID()
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, "Hi John, 10% off", d.Preview())
	assert.Equal(t, []Binding{{"offer", "10% off"}}, d.Variables())
}

func TestSaveValidationBlocksNetwork(t *testing.T) {
	s := &fakeSaver{}
	d := NewDraft(3)
	d.SetMessageText("body")

	_, err := d.Save(context.Background(), s)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"template_name"}, verr.Missing)
	assert.Empty(t, s.created)
	assert.Empty(t, s.updated)

	d.SetTemplateName("name")
	d.SetMessageText("")
	_, err = d.Save(context.Background(), s)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"message_text"}, verr.Missing)
	assert.Empty(t, s.created)
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	s := &fakeSaver{}
	d := NewDraft(3)
	d.SetTemplateName("Welcome")
	d.SetMessageText("Hi {{first_name}}")
	d.AppendVariable()
	d.UpdateVariable(0, FieldKey, "a")
	d.UpdateVariable(0, FieldValue, "1")
	d.AppendVariable()
	d.AppendVariable()
	d.UpdateVariable(2, FieldKey, "a")
	d.UpdateVariable(2, FieldValue, "2")

	out, err := d.Save(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, s.created, 1)
	assert.Equal(t, model.Variables{{Key: "a", Value: "2"}}, s.created[0].Variables)
	assert.Nil(t, s.created[0].ID)
	require.NotNil(t, out.ID)
	assert.False(t, d.IsNew())

	d.SetMessageText("Bye")
	_, err = d.Save(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, s.updated, 1)
	assert.Equal(t, []int64{42}, s.ids)
	assert.Equal(t, "Bye", s.updated[0].MessageText)
}

func TestSaveWrapsCollaboratorError(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSaver{err: boom}
	d := NewDraft(3)
	d.SetTemplateName("n")
	d.SetMessageText("m")

	_, err := d.Save(context.Background(), s)
	require.ErrorIs(t, err, boom)
	assert.True(t, d.IsNew())
}
