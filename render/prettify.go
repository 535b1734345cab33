// Package render formats API and site output: indented JSON, XML and HTML, and
// the XML catalog export.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	"github.com/yosssi/gohtml"
)

// Prettify will attempt to indent body. JSON, XML and HTML are supported; for anything
// else an empty slice is returned and the caller keeps the original bytes.
func Prettify(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return []byte{}, nil
	}

	trimmed := bytes.TrimSpace(body)

	if json.Valid(trimmed) {
		var output bytes.Buffer
		if err := json.Indent(&output, trimmed, "", "  "); err != nil {
			return []byte{}, fmt.Errorf("indenting JSON: %w", err)
		}
		return output.Bytes(), nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(trimmed); err == nil && doc.Root() != nil {
		doc.Indent(2)
		var output bytes.Buffer
		if _, err := doc.WriteTo(&output); err != nil {
			return []byte{}, fmt.Errorf("writing indented XML: %w", err)
		}
		return output.Bytes(), nil
	}

	if IsHTML(trimmed) {
		output := gohtml.FormatBytes(trimmed)
		if len(output) > 0 && !bytes.Equal(output, trimmed) {
			return output, nil
		}
	}

	return []byte{}, nil
}

// IsHTML reports whether body looks like an HTML document or fragment.
func IsHTML(body []byte) bool {
	if strings.Contains(mimetype.Detect(body).String(), "text/html") {
		return true
	}
	return bytes.HasPrefix(body, []byte("<")) && !bytes.HasPrefix(body, []byte("<?xml"))
}

// PrettifyOrKeep returns the indented form of body, or body itself when it cannot
// be prettified.
func PrettifyOrKeep(body []byte) []byte {
	pretty, err := Prettify(body)
	if err != nil || len(pretty) == 0 {
		return body
	}
	return pretty
}
