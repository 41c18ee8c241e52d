package matching

import "strings"

var yoFolder = strings.NewReplacer("ё", "е", "Ё", "Е")

// Normalize produces the canonical comparison key for free text: trimmed,
// lowercased, ё folded to е, inner whitespace runs collapsed to single spaces.
// Every cache write and lookup must go through this same function.
func Normalize(text string) string {
	folded := yoFolder.Replace(strings.TrimSpace(text))
	fields := strings.Fields(strings.ToLower(folded))
	return strings.Join(fields, " ")
}
