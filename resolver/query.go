package resolver

import (
	"net/url"
	"strings"
)

// query is an insertion-ordered list of query parameters, unlike url.Values.
type query []queryParam

type queryParam struct {
	key, value string
}

// add appends a parameter, empty values are skipped.
func (q *query) add(key, value string) {
	if value == "" {
		return
	}

	*q = append(*q, queryParam{key: key, value: value})
}

// encode encodes the parameters in the RFC 3986 form, spaces are encoded as %20.
func (q query) encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(escape(p.key))
		b.WriteByte('=')
		b.WriteString(escape(p.value))
	}

	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
