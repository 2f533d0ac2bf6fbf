package keybind

import (
	"fmt"
	"strings"
)

// SchemaIDPrefix is prepended to the caller-supplied short id to form the
// registry's schema id, e.g. "demo" -> "org.gnome.shell.extensions.demo".
const SchemaIDPrefix = "org.gnome.shell.extensions."

// schemaFileSuffix is the filename suffix glib-compile-schemas scans for.
const schemaFileSuffix = ".gschema.xml"

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeMarkup escapes the five markup-significant characters so that
// accelerator strings like "<Super>j" can be embedded in the schema
// document. Sequences are otherwise treated as opaque.
func escapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

// renderKey renders one binding as a string-array key element. The
// escaped sequences are serialized as a JSON-style array literal, which
// is the default-value form the schema compiler expects for an "as" key.
func renderKey(sb *strings.Builder, b Binding) {
	quoted := make([]string, len(b.Sequences))
	for i, seq := range b.Sequences {
		quoted[i] = `"` + escapeMarkup(seq) + `"`
	}
	fmt.Fprintf(sb, "    <key type=\"as\" name=\"%s\">\n", b.Name)
	sb.WriteString("      <summary/>\n")
	fmt.Fprintf(sb, "      <default>[%s]</default>\n", strings.Join(quoted, ","))
	sb.WriteString("    </key>\n")
}

// renderDocument renders the complete schema document for a registry.
// The output is deterministic: a fixed binding list always produces a
// byte-identical document.
func renderDocument(id, path string, bindings []Binding) string {
	var sb strings.Builder
	sb.WriteString("<schemalist>\n")
	fmt.Fprintf(&sb, "  <schema id=\"%s\" path=\"%s\">\n", id, path)
	for _, b := range bindings {
		renderKey(&sb, b)
	}
	sb.WriteString("  </schema>\n")
	sb.WriteString("</schemalist>\n")
	return sb.String()
}
