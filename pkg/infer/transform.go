package infer

import "fmt"

// transformLines renders the companion rewrite-function block: one
// assignment per field mapping the raw input record onto the proposed
// structure, in declaration order.
func transformLines(fields []FieldStructure) []string {
	out := make([]string, 0, len(fields)+2)
	out = append(out, "TRANSFORM reformat")
	for _, f := range fields {
		out = append(out, fmt.Sprintf("  %s = %s(IN.%s);", f.Name, conversionFunc(f.kind), f.Name))
	}
	out = append(out, "END;")
	return out
}

// conversionFunc picks the rewrite conversion for an inference label.
func conversionFunc(kind string) string {
	switch kind {
	case "integer":
		return "TOINT"
	case "float":
		return "TOFLOAT"
	case "boolean":
		return "TOBOOL"
	case "date":
		return "TODATE"
	case "timestamp":
		return "TODATETIME"
	default:
		return "TRIM"
	}
}
