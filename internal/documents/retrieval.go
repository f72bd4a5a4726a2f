package documents

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Disposition selects how a client should present fetched bytes.
type Disposition string

const (
	DispositionInline     Disposition = "inline"
	DispositionAttachment Disposition = "attachment"
)

// Blob is a document's metadata together with its raw bytes.
type Blob struct {
	Document    Document
	Data        []byte
	Disposition Disposition
}

// ContentDisposition renders the Content-Disposition header value for the blob.
func (b Blob) ContentDisposition() string {
	disposition := b.Disposition
	if disposition != DispositionAttachment {
		disposition = DispositionInline
	}
	name := b.Document.FileName
	header := fmt.Sprintf("%s; filename=%q", disposition, asciiFallback(name))
	if !isASCII(name) {
		header += "; filename*=UTF-8''" + extValueEscape(name)
	}
	return header
}

// asciiFallback replaces non-ASCII runes so the quoted filename stays a valid token.
func asciiFallback(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f || r >= utf8.RuneSelf:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// extValueEscape percent-encodes every byte of s that is not an RFC 5987 attr-char.
func extValueEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
