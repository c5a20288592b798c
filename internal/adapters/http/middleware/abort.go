package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// AbortWithError stops the chain and records err for the exception
// middleware, which renders the body once the chain unwinds. Unlike
// gin's AbortWithError, the header is not flushed.
func AbortWithError(c *gin.Context, err *exception.HTTPError) {
	c.Status(err.StatusCode())
	_ = c.Error(err)
	c.Abort()
}
