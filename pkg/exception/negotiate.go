package exception

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Negotiator picks the best of offers for the request's Accept header.
type Negotiator interface {
	Negotiate(c *gin.Context, offers []string) (string, error)
}

// NegotiatorFunc adapts a function to the Negotiator interface.
type NegotiatorFunc func(c *gin.Context, offers []string) (string, error)

// Negotiate calls f.
func (f NegotiatorFunc) Negotiate(c *gin.Context, offers []string) (string, error) {
	return f(c, offers)
}

// AcceptNegotiator matches offers against the Accept header of the gin
// request, honoring quality values. Offers may be concrete types or suffix
// patterns such as application/*+json, which match any accepted type of
// the same top-level type ending in +json.
//
// The winner has the highest quality, then the most specific matching
// range, then the earliest range in the header, then the earliest offer.
// A range with q=0 excludes the offers it is the most specific match for.
// A header with no parseable range yields an error, and a header matching
// no offer yields ErrNotAcceptable.
func AcceptNegotiator() Negotiator {
	return NegotiatorFunc(negotiateAccept)
}

// acceptRange is one media range of an Accept header.
type acceptRange struct {
	typ, subtype string
	quality      float64
	index        int
}

// Match specificity, lowest first.
const (
	matchAny = iota + 1
	matchType
	matchSuffix
	matchExact
)

type offerMatch struct {
	offer       string
	quality     float64
	specificity int
	index       int
}

func negotiateAccept(c *gin.Context, offers []string) (string, error) {
	if len(offers) == 0 {
		return "", fmt.Errorf("%w: nothing offered", ErrNotAcceptable)
	}

	header := c.GetHeader("Accept")

	ranges := parseAccept(header)
	if len(ranges) == 0 {
		return "", fmt.Errorf("negotiating content type: malformed Accept header %q", header)
	}

	var best *offerMatch
	for _, offer := range offers {
		m, ok := matchOffer(offer, ranges)
		if !ok || m.quality == 0 {
			continue
		}

		if best == nil || m.betterThan(best) {
			best = &m
		}
	}

	if best == nil {
		return "", fmt.Errorf("%w: %q", ErrNotAcceptable, header)
	}

	return best.offer, nil
}

func (m offerMatch) betterThan(o *offerMatch) bool {
	switch {
	case m.quality != o.quality:
		return m.quality > o.quality
	case m.specificity != o.specificity:
		return m.specificity > o.specificity
	default:
		// The earlier header range wins; a full tie keeps the earlier offer.
		return m.index < o.index
	}
}

// matchOffer finds the most specific range matching offer.
func matchOffer(offer string, ranges []acceptRange) (offerMatch, bool) {
	typ, subtype, ok := splitMediaType(offer)
	if !ok {
		return offerMatch{}, false
	}

	m := offerMatch{offer: offer}
	for _, r := range ranges {
		spec := r.matches(typ, subtype)
		if spec > m.specificity {
			m.quality, m.specificity, m.index = r.quality, spec, r.index
		}
	}

	return m, m.specificity > 0
}

// matches returns the specificity of the range for the offered type, or 0.
func (r acceptRange) matches(typ, subtype string) int {
	if r.typ == typ && r.subtype == subtype {
		return matchExact
	}

	if suffix, ok := strings.CutPrefix(subtype, "*+"); ok {
		// A pattern offer only answers concrete ranges carrying its suffix.
		if r.typ == typ && r.subtype != "*" && strings.HasSuffix(r.subtype, "+"+suffix) {
			return matchSuffix
		}
	}

	switch {
	case r.typ == "*" && r.subtype == "*":
		return matchAny
	case r.typ == typ && r.subtype == "*":
		return matchType
	default:
		return 0
	}
}

// parseAccept returns the well-formed ranges of header in header order.
// Ranges with an invalid media type or quality are dropped.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if part == "*" || strings.HasPrefix(part, "*;") {
			part = "*/*" + part[1:]
		}

		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}

		typ, subtype, ok := splitMediaType(mediaType)
		if !ok || (typ == "*" && subtype != "*") {
			continue
		}

		quality := 1.0
		if q, ok := params["q"]; ok {
			quality, err = strconv.ParseFloat(q, 64)
			if err != nil || quality < 0 || quality > 1 {
				continue
			}
		}

		ranges = append(ranges, acceptRange{typ: typ, subtype: subtype, quality: quality, index: len(ranges)})
	}

	return ranges
}

func splitMediaType(mediaType string) (typ, subtype string, ok bool) {
	typ, subtype, ok = strings.Cut(strings.ToLower(strings.TrimSpace(mediaType)), "/")
	if !ok || typ == "" || subtype == "" {
		return "", "", false
	}

	return typ, subtype, true
}

// normalizeContentType strips the suffix wildcard of patterns such as
// application/*+json, which are negotiation conveniences rather than
// legal response types.
func normalizeContentType(contentType string) string {
	if strings.Contains(contentType, "/*+") {
		return strings.Replace(contentType, "/*+", "/", 1)
	}

	return contentType
}
