package tmplx

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFields(t *testing.T) {
	t.Parallel()
	t.Run("single field", func(t *testing.T) {
		fields := ExtractFields("Hello, {{.Name}}!")
		assert.Equal(t, []string{"Name"}, fields)
	})

	t.Run("multiple fields", func(t *testing.T) {
		fields := ExtractFields("Your code is {{.Otp}}. It expires in {{.ExpiresIn}}.")
		assert.Equal(t, []string{"Otp", "ExpiresIn"}, fields)
	})

	t.Run("no fields", func(t *testing.T) {
		fields := ExtractFields("Hello, world!")
		assert.Equal(t, []string{}, fields)
	})

	t.Run("field in conditional", func(t *testing.T) {
		fields := ExtractFields(`{{if .CompanyName}}Welcome to {{.CompanyName}}!{{end}}`)
		assert.Equal(t, []string{"CompanyName"}, fields)
	})

	t.Run("field in pipe function", func(t *testing.T) {
		fields := ExtractFields(`Hello, {{.Name | upper}}!`)
		assert.Equal(t, []string{"Name"}, fields)
	})

	t.Run("duplicate fields listed once", func(t *testing.T) {
		fields := ExtractFields(`{{.Name}} {{.Name}} {{.Email}}`)
		assert.Equal(t, []string{"Name", "Email"}, fields)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("render with data", func(t *testing.T) {
		tmpl, err := Parse("otp", `Your verification code is {{.Otp}}.`)
		require.NoError(t, err)

		buf, err := tmpl.Render(map[string]string{"Otp": "042137"})
		require.NoError(t, err)
		assert.Equal(t, "Your verification code is 042137.", buf.String())
	})

	t.Run("default func", func(t *testing.T) {
		tmpl, err := Parse("greeting", `Hello {{default "there" .Name}}!`)
		require.NoError(t, err)

		buf, err := tmpl.Render(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "Hello there!", buf.String())
	})

	t.Run("upper and lower funcs", func(t *testing.T) {
		tmpl, err := Parse("case", `{{upper .Name}} / {{lower .Name}}`)
		require.NoError(t, err)

		buf, err := tmpl.Render(map[string]string{"Name": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, "ACME / acme", buf.String())
	})

	t.Run("jsonGet func", func(t *testing.T) {
		tmpl, err := Parse("meta", `{{jsonGet "tenant.name" .Raw}}`)
		require.NoError(t, err)

		buf, err := tmpl.Render(map[string]string{"Raw": `{"tenant":{"name":"Acme"}}`})
		require.NoError(t, err)
		assert.Equal(t, "Acme", buf.String())
	})

	t.Run("with template func", func(t *testing.T) {
		tmpl, err := Parse("custom", `{{portalUrl}}`,
			WithTemplateFunc("portalUrl", func() string { return "https://portal.example.com" }))
		require.NoError(t, err)

		buf, err := tmpl.Render(nil)
		require.NoError(t, err)
		assert.Equal(t, "https://portal.example.com", buf.String())
	})

	t.Run("with validation", func(t *testing.T) {
		testData := map[string]string{"Name": "test"}
		validateFn := func(buf *bytes.Buffer) error {
			if !strings.Contains(buf.String(), "test") {
				return fmt.Errorf("expected rendered output to mention the name")
			}
			return nil
		}

		_, err := Parse("valid", `Hi {{.Name}}`, WithValidate(testData, validateFn))
		require.NoError(t, err)

		_, err = Parse("invalid", `Hi {{.Missing}}`, WithValidate(testData, validateFn))
		require.Error(t, err)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := Parse("broken", `{{.Name`)
		require.ErrorIs(t, err, ErrParseTemplate)
	})
}
