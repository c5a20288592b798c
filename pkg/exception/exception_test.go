package exception

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// messageFormatter renders the bare error message.
func messageFormatter(types ...string) Formatter {
	return FormatterFunc{
		Types: types,
		Fn: func(err *HTTPError, _ *http.Request) (string, error) {
			return err.Message(), nil
		},
	}
}

// prefixFormatter renders the error message after a fixed prefix.
func prefixFormatter(prefix string, types ...string) Formatter {
	return FormatterFunc{
		Types: types,
		Fn: func(err *HTTPError, _ *http.Request) (string, error) {
			return prefix + err.Message(), nil
		},
	}
}

func newTestContext(method, target string, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}

	return c, w
}
