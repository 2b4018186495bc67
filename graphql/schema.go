package graphql

import (
	"strings"
	"sync"

	_ "embed"
)

// The base document defines the core Query fields; extension packages add
// their own types next to it through RegisterSchemaExtension.
//
//go:embed schema.graphqls
var baseSchema string

var ext struct {
	sync.RWMutex
	parts []string
}

// RegisterSchemaExtension appends extra schema text (new types, never edits
// to existing ones) to the served document. Call from init(); the server
// reads the document once at startup. Blank input is ignored.
func RegisterSchemaExtension(schema string) {
	s := strings.TrimSpace(schema)
	if s == "" {
		return
	}
	ext.Lock()
	ext.parts = append(ext.parts, s)
	ext.Unlock()
}

// Schema assembles the full document: base plus registered extensions.
func Schema() string {
	ext.RLock()
	defer ext.RUnlock()
	if len(ext.parts) == 0 {
		return baseSchema
	}
	var b strings.Builder
	b.WriteString(baseSchema)
	for _, p := range ext.parts {
		b.WriteString("\n\n")
		b.WriteString(p)
	}
	return b.String()
}
