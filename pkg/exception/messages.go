package exception

import (
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// Default messages produced by the Manager. Their IDs can be translated in
// the bundle passed with WithBundle; the language is taken from Accept-Language.
var (
	MessageNotFound = &i18n.Message{
		ID:          "ExceptionNotFound",
		Description: "Body of not-found responses",
		Other:       "Not found",
	}

	MessageMethodNotAllowed = &i18n.Message{
		ID:          "ExceptionMethodNotAllowed",
		Description: "Message of method-not-allowed errors",
		Other:       "Method {{.Method}} not allowed. Must be one of: {{.Allowed}}",
	}

	MessageAllowedMethods = &i18n.Message{
		ID:          "ExceptionAllowedMethods",
		Description: "Body of OPTIONS responses on routes without an OPTIONS handler",
		Other:       "Allowed methods: {{.Allowed}}",
	}

	MessageInternalServerError = &i18n.Message{
		ID:          "ExceptionInternalServerError",
		Description: "Message of errors wrapping an unexpected failure",
		Other:       "Internal server error",
	}
)

// localize renders msg for the request language. fallback is returned when
// no bundle is configured or the message cannot be rendered.
func (m *Manager) localize(c *gin.Context, msg *i18n.Message, data map[string]any, fallback string) string {
	if m.bundle == nil {
		return fallback
	}

	var langs []string
	if c.Request != nil {
		if accept := c.Request.Header.Get("Accept-Language"); accept != "" {
			langs = append(langs, accept)
		}
	}

	localizer := i18n.NewLocalizer(m.bundle, langs...)

	// A missing translation still yields the default message along with an error.
	out, _ := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if out == "" {
		return fallback
	}

	return out
}
