package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	jwtPattern       = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// sensitiveFields are redacted wherever they appear: log attributes,
// struct fields and the metadata of logged exceptions.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"apiKey", "apikey", "api_key",
	"accessToken", "access_token",
	"refreshToken", "refresh_token",
	"credential", "credentials",
	"authorization", "auth", "bearer",
	"cookie", "set-cookie", "session",
	"privateKey", "private_key",
	"secretKey", "secret_key",
	// Identity headers forwarded by the gateway.
	"claims", "x-user-claims",
}

var sensitivePrefixes = []string{"secret", "private"}

// DefaultRedactOptions returns the masq options used by every logger built
// by this package. Extend them with NewReplaceAttr's arguments:
//
//	replace := logging.NewReplaceAttr(masq.WithFieldName("iban"))
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+len(sensitivePrefixes)+3)

	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}

	return append(opts,
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr function redacting everything
// DefaultRedactOptions matches plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
