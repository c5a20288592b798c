package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spanish = `
ExceptionNotFound = "No encontrado"

[ExceptionAllowedMethods]
other = "Métodos permitidos: {{.Allowed}}"
`

func TestNewBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "active.es.toml"), []byte(spanish), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	bundle, err := NewBundle("en", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "es"}, Languages(bundle))

	localizer := i18n.NewLocalizer(bundle, "es")

	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: "ExceptionNotFound"})
	require.NoError(t, err)
	assert.Equal(t, "No encontrado", msg)

	msg, err = localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    "ExceptionAllowedMethods",
		TemplateData: map[string]any{"Allowed": "GET"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Métodos permitidos: GET", msg)
}

func TestNewBundle_NoDirectory(t *testing.T) {
	bundle, err := NewBundle("en", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"en"}, Languages(bundle))
}

func TestNewBundle_Errors(t *testing.T) {
	t.Run("invalid default language", func(t *testing.T) {
		_, err := NewBundle("not a language", "")
		assert.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewBundle("en", filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading translations directory")
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "active.fr.toml"), []byte("= broken"), 0o600))

		_, err := NewBundle("en", dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "active.fr.toml")
	})
}

func TestRepositoryTranslations(t *testing.T) {
	bundle, err := NewBundle("en", filepath.Join("..", "..", "..", "configs", "i18n"))
	require.NoError(t, err)

	assert.Contains(t, Languages(bundle), "es")
}
