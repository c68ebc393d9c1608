package infer

import (
	"html"
	"strings"
)

// renderHTML formats the proposed structure as one self-contained HTML
// fragment: a table enumerating field names and declaration types, plus a
// preformatted rewrite-function block when requested.
//
// The fragment is intentionally plain markup with no styling or scripts;
// presentation belongs to whatever embeds it.
func renderHTML(fields []FieldStructure, withTransform bool) string {
	var b strings.Builder

	b.WriteString("<table>")
	b.WriteString("<thead><tr><th>field</th><th>type</th></tr></thead>")
	b.WriteString("<tbody>")
	for _, f := range fields {
		b.WriteString("<tr><td>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(f.DeclType))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")

	if withTransform {
		b.WriteString("<pre>")
		for i, line := range transformLines(fields) {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("</pre>")
	}

	return b.String()
}
