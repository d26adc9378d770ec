package tmplfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-console/internal/model"
)

func TestReadKeepsVariableOrder(t *testing.T) {
	content := "" +
		"---\n" +
		"id: 7\n" +
		"ad_id: 3\n" +
		"template_name: Welcome\n" +
		"variables:\n" +
		"  zeta: last letter\n" +
		"  alpha: \"10%\"\n" +
		"  count: 5\n" +
		"  empty:\n" +
		"---\n" +
		"Hi {{first_name}},\n\nuse {{alpha}}.\n"

	tpl, err := Read(strings.NewReader(content))
	require.NoError(t, err)
	require.NotNil(t, tpl.ID)
	assert.Equal(t, int64(7), *tpl.ID)
	assert.Equal(t, int64(3), tpl.AdID)
	assert.Equal(t, "Welcome", tpl.TemplateName)
	assert.Equal(t, "Hi {{first_name}},\n\nuse {{alpha}}.\n", tpl.MessageText)
	assert.Equal(t, model.Variables{{Key: "zeta", Value: "last letter"}, {Key: "alpha", Value: "10%"}, {Key: "count", Value: "5"}, {Key: "empty", Value: ""}}, tpl.Variables)
}

func TestReadWithoutVariables(t *testing.T) {
	tpl, err := Read(strings.NewReader("---\nad_id: 1\ntemplate_name: x\n---\nbody"))
	require.NoError(t, err)
	assert.Nil(t, tpl.ID)
	assert.Empty(t, tpl.Variables)
	assert.Equal(t, "body", tpl.MessageText)
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"no frontmatter":   "Hi there\n",
		"unterminated":     "---\nad_id: 1\n",
		"missing ad":       "---\ntemplate_name: x\n---\nbody",
		"nested variable":  "---\nad_id: 1\nvariables:\n  a:\n    b: c\n---\n",
		"variables a list": "---\nad_id: 1\nvariables: [a, b]\n---\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(content))
			assert.Error(t, err)
		})
	}
}

func TestWriteThenRead(t *testing.T) {
	id := int64(12)
	in := model.MessageTemplate{
		ID:           &id,
		AdID:         4,
		TemplateName: "Follow up",
		MessageText:  "Hello {{first_name}}\n--- not a delimiter ---\n{{code}}",
		Variables:    model.Variables{{Key: "code", Value: "123"}, {Key: "brand", Value: "Acme: Co"}, {Key: "blank", Value: ""}},
	}

	path := filepath.Join(t.TempDir(), "tpl.md")
	require.NoError(t, WriteFile(path, in))
	out, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model.MessageTemplate{AdID: 2, TemplateName: "T", MessageText: "M"}))
	assert.Equal(t, "---\nad_id: 2\ntemplate_name: T\nvariables: {}\n---\nM", buf.String())
}
