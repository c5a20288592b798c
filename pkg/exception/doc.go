// Package exception turns typed HTTP errors into negotiated, formatted gin responses.
//
// The package has three moving parts:
//
//   - HTTPError carries a status code, a message and optional title, cause
//     and metadata. Factories such as NotFound and InternalServerError build
//     the common cases.
//   - ExceptionHandler owns an ordered set of Formatters keyed by content type,
//     negotiates the response type against the request's Accept header and
//     builds the Response.
//   - Manager picks the Handler registered for the error's status code (or the
//     default one), logs the error and exposes the gin hooks: Recovery,
//     Middleware, NotFound and NotAllowed.
//
// Typical wiring:
//
//	handler := exception.NewHandler()
//	handler.MustAddFormatter(formatter.NewJSON())
//	handler.MustAddFormatter(formatter.NewText())
//
//	manager := exception.NewManager(handler, exception.WithLogger(logger))
//	manager.Install(engine) // before registering routes
//
// Handlers, formatters and the manager are configured once at startup and are
// read-only afterwards; registration methods must not race with request handling.
package exception
