package exception

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is a fully formed error response, ready to be written to gin.
type Response struct {
	// Proto is the protocol version of the request being answered.
	Proto string

	StatusCode int
	Header     http.Header
	Body       string
}

// NewResponse builds a response whose Content-Type is contentType with a utf-8 charset.
func NewResponse(proto string, status int, contentType, body string) *Response {
	header := make(http.Header)
	header.Set("Content-Type", contentType+"; charset=utf-8")

	return &Response{
		Proto:      proto,
		StatusCode: status,
		Header:     header,
		Body:       body,
	}
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Render writes the response and aborts the remaining handler chain.
// Nothing is written if the response has already been started.
func (r *Response) Render(c *gin.Context) {
	if c.Writer.Written() {
		c.Abort()
		return
	}

	for key, values := range r.Header {
		if key == "Content-Type" {
			continue
		}

		c.Writer.Header().Del(key)
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}

	c.Data(r.StatusCode, r.ContentType(), []byte(r.Body))
	c.Abort()
}

func requestProto(c *gin.Context) string {
	if c.Request == nil || c.Request.Proto == "" {
		return "HTTP/1.1"
	}

	return c.Request.Proto
}
