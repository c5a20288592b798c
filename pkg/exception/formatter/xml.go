package formatter

import (
	"cmp"
	"encoding/xml"
	"fmt"
	"net/http"
	"reflect"
	"slices"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// XML renders errors as an <error> document.
type XML struct {
	opts options
}

// NewXML creates an XML formatter.
func NewXML(opts ...Option) *XML {
	return &XML{opts: newOptions(opts)}
}

// ContentTypes implements exception.Formatter.
func (x *XML) ContentTypes() []string {
	return []string{"application/xml", "text/xml", "application/x-xml"}
}

// Format implements exception.Formatter.
func (x *XML) Format(err *exception.HTTPError, req *http.Request) (string, error) {
	out, merr := xml.MarshalIndent(NewEnvelope(err, req, x.opts.trace), "", "  ")
	if merr != nil {
		return "", fmt.Errorf("encoding xml: %w", merr)
	}

	return xml.Header + string(out), nil
}

// Metadata is the error metadata of an Envelope. In XML every entry is a
// <detail key="..."> element, sorted by key. Nested maps nest the same way
// and slices repeat an <item> element per value.
type Metadata map[string]any

// MarshalXML implements xml.Marshaler.
func (m Metadata) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return encodeXMLValue(e, start, reflect.ValueOf(map[string]any(m)))
}

func encodeXMLValue(e *xml.Encoder, start xml.StartElement, v reflect.Value) error {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return e.EncodeElement("", start)
		}
		v = v.Elem()
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}

	switch v.Kind() {
	case reflect.Map:
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})

		for _, key := range keys {
			if err := encodeXMLValue(e, detailElement(fmt.Sprint(key.Interface())), v.MapIndex(key)); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if err := e.EncodeToken(xml.CharData(fmt.Sprintf("%s", v.Interface()))); err != nil {
				return err
			}

			break
		}

		for i := range v.Len() {
			if err := encodeXMLValue(e, xml.StartElement{Name: xml.Name{Local: "item"}}, v.Index(i)); err != nil {
				return err
			}
		}
	default:
		if err := e.EncodeToken(xml.CharData(fmt.Sprint(v.Interface()))); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

func detailElement(key string) xml.StartElement {
	return xml.StartElement{
		Name: xml.Name{Local: "detail"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "key"}, Value: key}},
	}
}
