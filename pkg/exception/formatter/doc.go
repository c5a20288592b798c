// Package formatter provides exception.Formatter implementations for the
// content types an API usually negotiates: plain text, JSON, XML, HTML, YAML,
// RFC 9457 problem details and JSON:API error documents.
//
// Every formatter takes the same options. Stack traces are off by default:
//
//	h := exception.NewHandler()
//	h.MustAddFormatter(formatter.NewJSON(formatter.WithTrace(true)))
//	h.MustAddFormatter(formatter.NewText())
package formatter
