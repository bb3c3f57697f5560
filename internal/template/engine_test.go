package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/mailerctl/internal/mailer"
)

func sampleData() map[string]interface{} {
	return ContactData(mailer.Contact{
		Email:     "jane.doe@example.com",
		FirstName: "jane",
		LastName:  "Doe",
	})
}

func TestRenderSubstitutesVariables(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render("Hello {{ first_name }} {{ last_name }}!", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Hello jane Doe!", out)
}

func TestRenderMissingVariableIsEmpty(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render("Hi {{ nickname }}!", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Hi !", out)
}

func TestDefaultFilter(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render(`Hi {{ nickname | default: "Friend" }}!`, sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Hi Friend!", out)

	out, err = engine.Render(`Hi {{ first_name | default: "Friend" }}!`, sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Hi jane!", out)
}

func TestCapitalizeFilter(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render("{{ first_name | capitalize }}", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Jane", out)
}

func TestTruncateFilter(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render("{{ last_name | truncate: 2 }}", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Doe", out) // below the minimum useful length, unchanged

	data := map[string]interface{}{"subject": "a very long subject line"}
	out, err = engine.Render("{{ subject | truncate: 10 }}", data)
	require.NoError(t, err)
	assert.Equal(t, "a very ...", out)
}

func TestURLEncodeFilter(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render("{{ email | urlencode }}", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "jane.doe%40example.com", out)
}

func TestEscapeFilter(t *testing.T) {
	engine := NewEngine()

	data := map[string]interface{}{"first_name": "<b>Jane</b>"}
	out, err := engine.Render("{{ first_name | escape }}", data)
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;Jane&lt;/b&gt;", out)
}

func TestEmailDomainFilter(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Render("{{ email | email_domain }}", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "example.com", out)
}

func TestRenderParseErrorReturnsBody(t *testing.T) {
	engine := NewEngine()

	// An unterminated block tag is a parse error; a dangling "{{" is not,
	// the engine renders it literally.
	body := "Hello {% if first_name %}there"
	out, err := engine.Render(body, sampleData())
	assert.Error(t, err)
	assert.Equal(t, body, out)
}

func TestRenderStrictReportsMissingVariables(t *testing.T) {
	engine := NewEngine()

	body := "Hi {{ first_name }}, your code is {{ promo_code }} ({{ promo_code }})"
	out, warnings, err := engine.RenderStrict(body, sampleData())
	require.NoError(t, err)

	assert.Contains(t, out, "Hi jane")
	require.Len(t, warnings, 1) // duplicates reported once
	assert.Equal(t, "promo_code", warnings[0].Variable)
}

func TestRenderStrictIgnoresKeywords(t *testing.T) {
	engine := NewEngine()

	body := "{% if first_name %}{{ first_name }}{% endif %}{{ true }}"
	_, warnings, err := engine.RenderStrict(body, sampleData())
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestParseCacheReturnsSameTemplate(t *testing.T) {
	engine := NewEngine()
	body := "Hello {{ first_name }}"

	first, err := engine.parse(body)
	require.NoError(t, err)
	second, err := engine.parse(body)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
