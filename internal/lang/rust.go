package lang

import (
	"regexp"

	"github.com/smacker/go-tree-sitter/rust"
)

// visibility matches pub, pub(crate), pub(super) and pub(in path).
const visibility = `(?:pub(?:\([^)\n]*\))?\s+)?`

func init() {
	Languages["rust"] = &Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		OpenDelim:  '{',
		CloseDelim: '}',
		lang:       rust.GetLanguage(),
		Patterns: Patterns{
			Definition: regexp.MustCompile(`(?m)^[ \t]*` + visibility +
				`(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"\n]*"\s+)?` +
				`fn\s+(?P<name>[a-zA-Z0-9_]+)\s*(?:<.*?>)?\s*\(`),
			TypeDecl: regexp.MustCompile(`(?m)^[ \t]*` + visibility +
				`(?P<kind>struct|enum|type|trait)\s+(?P<name>[a-zA-Z0-9_]+)`),
			MethodCall:  regexp.MustCompile(`\.(?P<name>[a-zA-Z0-9_]+)\s*\(`),
			FreeCall:    regexp.MustCompile(`[^a-zA-Z0-9_.](?P<name>[a-zA-Z0-9_]+)\s*\(`),
			BuilderCall: regexp.MustCompile(`(?P<name>[a-zA-Z0-9_]+)\s*\(\s*\)`),
		},
		Exclusions: Exclusions{
			Methods: nameSet(
				"is_empty", "len", "clone", "unwrap", "unwrap_or", "unwrap_or_else",
				"expect", "map", "map_err", "and_then", "or_else", "filter", "collect",
				"to_string", "to_str", "parse", "as_str", "as_ref", "display", "send",
				"await", "lock", "get", "push", "pop", "clear", "insert", "contains_key",
			),
			Free: nameSet(
				"if", "for", "while", "match", "return", "assert", "println", "panic",
				"format", "print", "info", "error", "warn", "debug", "trace", "let",
				"break", "continue", "loop", "async", "await", "move", "static", "const",
				"struct", "enum", "trait", "impl", "type", "pub", "self", "map", "filter",
				"as", "is", "mut", "ref", "vec", "super", "use", "extern", "spawn",
				"process", "eprintln", "unwrap",
			),
			Builders: nameSet(
				"Ok", "Err", "Some", "None", "Arc", "Vec", "HashMap", "HashSet", "String",
			),
		},
	}
}
