package pomxml

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var xmlDecl = regexp.MustCompile(`^<\?xml\s[^>]*?\bencoding\s*=\s*["']([A-Za-z][A-Za-z0-9._:-]*)["']`)

// declaredCharset returns the encoding named by the XML declaration, or nil
// when the manifest is UTF-8 (or ASCII, or has no declaration).
func declaredCharset(content []byte) (encoding.Encoding, string, error) {
	m := xmlDecl.FindSubmatch(content)
	if m == nil {
		return nil, "", nil
	}
	label := string(m[1])
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return nil, label, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		// WHATWG labels cover aliases the IANA registry lacks
		if enc, err = htmlindex.Get(label); err != nil {
			return nil, label, err
		}
	}
	return enc, label, nil
}

// passCharset lets encoding/xml accept a non-UTF-8 declaration for a buffer
// that was already transcoded.
func passCharset(_ string, in io.Reader) (io.Reader, error) { return in, nil }
