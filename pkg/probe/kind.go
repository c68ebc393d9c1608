package probe

// kindClass enumerates the dispatch outcomes for a recorded storage kind.
type kindClass int

const (
	// classFlat selects the fixed/structured read strategy.
	classFlat kindClass = iota

	// classDelimited selects the delimited read strategy.
	classDelimited

	// classUnknown means the store recorded no kind. Dispatch treats it
	// exactly like classDelimited: unclassified files are most often
	// delimited text. This is a policy default, not a detection failure.
	classUnknown

	// classUnsupported means the store recorded a non-empty kind this core
	// does not handle. No flat/csv coercion is attempted.
	classUnsupported
)

// fileKind is the classification of one trimmed kind string. raw preserves
// the store's value for error reporting.
type fileKind struct {
	class kindClass
	raw   string
}

// classifyKind maps a trimmed kind string onto its dispatch class. It is
// computed once per invocation; all branching downstream is on the class.
func classifyKind(trimmed string) fileKind {
	switch trimmed {
	case "flat":
		return fileKind{class: classFlat, raw: trimmed}
	case "csv":
		return fileKind{class: classDelimited, raw: trimmed}
	case "":
		return fileKind{class: classUnknown}
	default:
		return fileKind{class: classUnsupported, raw: trimmed}
	}
}

// label reports the class as a metric label value.
func (k fileKind) label() string {
	switch k.class {
	case classFlat:
		return "flat"
	case classDelimited:
		return "csv"
	case classUnknown:
		return "unknown"
	default:
		return "unsupported"
	}
}
