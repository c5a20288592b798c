package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/gin-exception/internal/platform/logging"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
	"github.com/jsamuelsen/gin-exception/pkg/exception/formatter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestRequestIDMiddleware tests the RequestID middleware.
func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
		expectGenerated  bool
	}{
		{
			name:             "generates UUID when no header present",
			existingHeaderID: "",
			expectGenerated:  true,
		},
		{
			name:             "passes through existing header",
			existingHeaderID: "existing-req-123",
			expectGenerated:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID string
			var capturedContextID string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetRequestID(c)
				capturedContextID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderRequestID, tt.existingHeaderID)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			// Check response header is set
			responseHeader := w.Header().Get(HeaderRequestID)
			assert.NotEmpty(t, responseHeader)

			// Check ID is stored in gin context
			assert.NotEmpty(t, capturedID)
			assert.Equal(t, responseHeader, capturedID)

			// Check ID is stored in context.Context
			assert.Equal(t, capturedID, capturedContextID)

			if !tt.expectGenerated {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			}
		})
	}
}

// TestCorrelationIDMiddleware tests the CorrelationID middleware.
func TestCorrelationIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
		expectGenerated  bool
	}{
		{
			name:             "generates UUID when no header present",
			existingHeaderID: "",
			expectGenerated:  true,
		},
		{
			name:             "passes through existing header",
			existingHeaderID: "existing-corr-456",
			expectGenerated:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID string
			var capturedContextID string

			router := gin.New()
			router.Use(CorrelationID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetCorrelationID(c)
				capturedContextID = CorrelationIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderCorrelationID, tt.existingHeaderID)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			// Check response header is set
			responseHeader := w.Header().Get(HeaderCorrelationID)
			assert.NotEmpty(t, responseHeader)

			// Check ID is stored in gin context
			assert.NotEmpty(t, capturedID)
			assert.Equal(t, responseHeader, capturedID)

			// Check ID is stored in context.Context
			assert.Equal(t, capturedID, capturedContextID)

			if !tt.expectGenerated {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			}
		})
	}
}

// TestGetRequestID tests the GetRequestID function.
func TestGetRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		expected string
	}{
		{
			name: "returns value when set",
			setupCtx: func(c *gin.Context) {
				c.Set(ContextKeyRequestID, "test-id")
			},
			expected: "test-id",
		},
		{
			name:     "returns empty when not set",
			setupCtx: func(c *gin.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := GetRequestID(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestGetCorrelationID tests the GetCorrelationID function.
func TestGetCorrelationID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		expected string
	}{
		{
			name: "returns value when set",
			setupCtx: func(c *gin.Context) {
				c.Set(ContextKeyCorrelationID, "corr-id")
			},
			expected: "corr-id",
		},
		{
			name:     "returns empty when not set",
			setupCtx: func(c *gin.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := GetCorrelationID(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestIDMiddlewareRejectsMalformedHeaders tests that unusable incoming ids are replaced.
func TestIDMiddlewareRejectsMalformedHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"too long", strings.Repeat("a", 129)},
		{"markup", "<script>alert(1)</script>"},
		{"whitespace", "req 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, GetRequestID(c))
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(HeaderRequestID, tt.header)

			router.ServeHTTP(w, req)

			assert.NotEqual(t, tt.header, w.Body.String())
			assert.Regexp(t, `^[0-9a-f-]{36}$`, w.Body.String())
			assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
		})
	}
}

// TestCorrelationIDDefaultsToRequestID tests that a new transaction is identified by its first request.
func TestCorrelationIDDefaultsToRequestID(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequestID(), CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-42")

	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(HeaderCorrelationID))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-43")
	req.Header.Set(HeaderCorrelationID, "txn-1")

	router.ServeHTTP(w, req)

	assert.Equal(t, "txn-1", w.Header().Get(HeaderCorrelationID))
}

// TestLogging tests the Logging middleware.
func TestLogging(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("logs normal request", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Logging(logger))
		router.GET("/api/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("skips /-/ paths", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Logging(logger))
		router.GET("/-/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/-/health", nil)

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("logs path with query string", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Logging(logger))
		router.GET("/api/search", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/search?q=hello&limit=10", nil)

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("logs 500 error at error level", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Logging(logger))
		router.GET("/api/error", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/error", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("logs 400 error at warn level", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Logging(logger))
		router.GET("/api/bad", func(c *gin.Context) {
			c.Status(http.StatusBadRequest)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bad", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestLoggingOptions tests skip paths, the fallback logger and slow requests.
func TestLoggingOptions(t *testing.T) {
	t.Parallel()

	records := func(t *testing.T, buf *bytes.Buffer) []map[string]any {
		t.Helper()

		var out []map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			if len(line) == 0 {
				continue
			}

			var rec map[string]any
			require.NoError(t, json.Unmarshal(line, &rec))
			out = append(out, rec)
		}

		return out
	}

	t.Run("skips exact paths and the /-/ prefix", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		router := gin.New()
		router.Use(Logging(slog.New(slog.NewJSONHandler(&buf, nil)), WithSkipPaths("/metrics")))
		router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/-/ready", func(c *gin.Context) { c.Status(http.StatusOK) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/-/ready", nil))

		assert.Empty(t, buf.String())
	})

	t.Run("falls back to the given logger", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		router := gin.New()
		router.Use(Logging(slog.New(slog.NewJSONHandler(&buf, nil))))
		router.GET("/api/data", func(c *gin.Context) { c.Status(http.StatusOK) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/data?page=1", nil))

		recs := records(t, &buf)
		require.Len(t, recs, 2)
		assert.Equal(t, "request started", recs[0]["msg"])
		assert.Equal(t, "/api/data?page=1", recs[1]["path"])
		assert.Equal(t, "INFO", recs[1]["level"])
	})

	t.Run("slow requests are raised to warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		router := gin.New()
		router.Use(Logging(slog.New(slog.NewJSONHandler(&buf, nil)), WithSlowThreshold(time.Millisecond)))
		router.GET("/api/slow", func(c *gin.Context) {
			time.Sleep(5 * time.Millisecond)
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/slow", nil))

		recs := records(t, &buf)
		require.Len(t, recs, 2)
		assert.Equal(t, "WARN", recs[1]["level"])
		assert.Equal(t, true, recs[1]["slow"])
	})

	t.Run("levels follow the status", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.LevelInfo, completionLevel(http.StatusOK))
		assert.Equal(t, slog.LevelWarn, completionLevel(http.StatusNotFound))
		assert.Equal(t, slog.LevelError, completionLevel(http.StatusBadGateway))
	})
}

// TestLogging_RecordsError tests that the last context error is logged.
func TestLogging_RecordsError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	})
	router.Use(Logging(logger))
	router.GET("/api/conflict", func(c *gin.Context) {
		AbortWithError(c, exception.Conflict("taken", exception.WithID("err-1")))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &rec))
	assert.Equal(t, "request completed", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "taken", rec["error"])
	assert.Equal(t, "err-1", rec["error_id"])
	assert.Equal(t, "CONFLICT", rec["error_code"])
}

// newTestManager returns an exception manager rendering JSON envelopes.
func newTestManager(t *testing.T) *exception.Manager {
	t.Helper()

	h := exception.NewHandler()
	require.NoError(t, h.AddFormatter(formatter.NewJSON()))

	return exception.NewManager(h)
}

// TestAbortWithError tests that the status is set without flushing the header.
func TestAbortWithError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	AbortWithError(c, exception.Conflict("taken"))

	assert.True(t, c.IsAborted())
	assert.False(t, c.Writer.Written())
	assert.Equal(t, http.StatusConflict, c.Writer.Status())
	require.Len(t, c.Errors, 1)
	assert.Equal(t, "taken", c.Errors.Last().Error())
}

// TestRecovery tests the Recovery middleware.
func TestRecovery(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(manager))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panicking handler returns 500", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(manager))
		router.GET("/test", func(c *gin.Context) {
			panic("something went wrong")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
		assert.NotContains(t, w.Body.String(), "something went wrong")
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(manager))
		router.GET("/test", func(c *gin.Context) {
			panic(http.ErrAbortHandler)
		})

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
		})
	})
}

// TestRecoveryWithWriter tests the RecoveryWithWriter middleware.
func TestRecoveryWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("calls stack handler on panic", func(t *testing.T) {
		t.Parallel()

		var capturedErr any
		var capturedStack []byte

		stackHandler := func(err any, stack []byte) {
			capturedErr = err
			capturedStack = stack
		}

		router := gin.New()
		router.Use(RecoveryWithWriter(newTestManager(t), stackHandler))
		router.GET("/test", func(c *gin.Context) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "test panic", capturedErr)
		assert.NotEmpty(t, capturedStack)
		assert.Contains(t, string(capturedStack), "panic")
	})
}

// TestPanicError tests the error built from a panic value.
func TestPanicError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	assert.Equal(t, "panic: boom", (&PanicError{Value: cause}).Error())
	assert.ErrorIs(t, &PanicError{Value: cause}, cause)
	assert.Equal(t, "panic: 42", (&PanicError{Value: 42}).Error())
	assert.NoError(t, (&PanicError{Value: 42}).Unwrap())
}

// TestSimpleTimeout tests the SimpleTimeout middleware.
func TestSimpleTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets context deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(SimpleTimeout(5 * time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline, "context should have deadline")
	})
}

// TestTimeout tests the Timeout middleware.
func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast handler is untouched", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(5 * time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline, "request context should have deadline")
	})

	t.Run("expired deadline renders 503", func(t *testing.T) {
		t.Parallel()

		manager := newTestManager(t)

		router := gin.New()
		router.Use(manager.Middleware(), Timeout(10*time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "request timeout exceeded")
		assert.Contains(t, w.Body.String(), `"timeout":"10ms"`)
	})

	t.Run("written response is kept", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(newTestManager(t).Middleware(), Timeout(10*time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			c.String(http.StatusAccepted, "partial")
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

// TestTimeoutWithSkipPaths tests the TimeoutWithSkipPaths middleware.
func TestTimeoutWithSkipPaths(t *testing.T) {
	t.Parallel()

	t.Run("skips timeout for specified paths", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(TimeoutWithSkipPaths(1*time.Second, []string{"/uploads"}))
		router.POST("/uploads", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/uploads", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, hasDeadline, "skipped path should not have deadline")
	})
}

// TestGetIDFromContext tests the internal getIDFromContext helper.
func TestGetIDFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		key      string
		expected string
	}{
		{
			name: "returns ID when string value exists",
			setupCtx: func(c *gin.Context) {
				c.Set("test-key", "test-value")
			},
			key:      "test-key",
			expected: "test-value",
		},
		{
			name:     "returns empty when key not exists",
			setupCtx: func(c *gin.Context) {},
			key:      "test-key",
			expected: "",
		},
		{
			name: "returns empty when value is not string",
			setupCtx: func(c *gin.Context) {
				c.Set("test-key", 123)
			},
			key:      "test-key",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := getIDFromContext(c, tt.key)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestContextStorageIntegration tests integration between ID middleware and context storage.
func TestContextStorageIntegration(t *testing.T) {
	t.Parallel()

	t.Run("RequestID middleware stores ID in both contexts", func(t *testing.T) {
		t.Parallel()

		var ginContextID string
		var stdContextID string

		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			ginContextID = GetRequestID(c)
			stdContextID = RequestIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "integration-test-id")

		router.ServeHTTP(w, req)

		assert.Equal(t, "integration-test-id", ginContextID)
		assert.Equal(t, "integration-test-id", stdContextID)
		assert.Equal(t, ginContextID, stdContextID)
	})

	t.Run("CorrelationID middleware stores ID in both contexts", func(t *testing.T) {
		t.Parallel()

		var ginContextID string
		var stdContextID string

		router := gin.New()
		router.Use(CorrelationID())
		router.GET("/test", func(c *gin.Context) {
			ginContextID = GetCorrelationID(c)
			stdContextID = CorrelationIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderCorrelationID, "integration-corr-id")

		router.ServeHTTP(w, req)

		assert.Equal(t, "integration-corr-id", ginContextID)
		assert.Equal(t, "integration-corr-id", stdContextID)
		assert.Equal(t, ginContextID, stdContextID)
	})
}

// TestUUIDGeneration tests that generated IDs are valid UUIDs.
func TestUUIDGeneration(t *testing.T) {
	t.Parallel()

	t.Run("RequestID generates valid UUID", func(t *testing.T) {
		t.Parallel()

		var generatedID string

		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			generatedID = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)

		assert.NotEmpty(t, generatedID)
		// UUID v4 format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, generatedID)
	})

	t.Run("CorrelationID generates valid UUID", func(t *testing.T) {
		t.Parallel()

		var generatedID string

		router := gin.New()
		router.Use(CorrelationID())
		router.GET("/test", func(c *gin.Context) {
			generatedID = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)

		assert.NotEmpty(t, generatedID)
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, generatedID)
	})
}
