package outfit

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredField means the extracted object lacks one of the
// two fields that cannot be synthesized, overall_vibe or item_flags.
var ErrMissingRequiredField = errors.New("missing required field")

// Filler entries used to pad short lists up to their target length.
// Fillers rotate when a list needs more than one.
var (
	whatWorksFillers = []string{
		"Visible clothing items form a consistent appearance.",
		"The outfit elements appear visually consistent.",
	}
	whatNeedsWorkFillers = []string{
		"No clearly visible fit issues are present.",
	}
	suggestionsFillers = []string{
		"No changes are required based on visible elements.",
	}
)

// Normalize forces an extracted object into the canonical Report shape.
// Lists are truncated keeping the first entries or padded with fillers,
// flags are coerced onto the closed enum, and absent vibe strings
// default to empty. The input map is not modified, and normalizing an
// already canonical report changes nothing.
//
// overall_vibe and item_flags must be present as objects; anything else
// returns ErrMissingRequiredField.
func Normalize(obj map[string]any) (*Report, error) {
	vibe, ok := obj["overall_vibe"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: overall_vibe", ErrMissingRequiredField)
	}
	flags, ok := obj["item_flags"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: item_flags", ErrMissingRequiredField)
	}

	r := &Report{
		OverallVibe: OverallVibe{
			Summary:  stringField(vibe, "summary"),
			Category: stringField(vibe, "category"),
		},
		WhatWorks:     fitList(stringList(obj, "what_works"), WhatWorksLen, whatWorksFillers),
		WhatNeedsWork: fitList(stringList(obj, "what_needs_work"), WhatNeedsWorkLen, whatNeedsWorkFillers),
		Suggestions:   fitList(stringList(obj, "suggestions"), SuggestionsLen, suggestionsFillers),
	}
	for _, k := range ItemKeys {
		r.ItemFlags.Set(k, coerceFlag(stringField(flags, string(k))))
	}
	return r, nil
}

// fitList returns a fresh slice of exactly target entries, truncating
// from the tail or padding from the rotating filler set. The filler for
// pad position i is fillers[i%len(fillers)] counted from the list
// start, so a list padded from zero cycles through every filler.
func fitList(entries []string, target int, fillers []string) []string {
	if len(entries) > target {
		entries = entries[:target]
	}
	out := make([]string, len(entries), target)
	copy(out, entries)
	for i := len(out); i < target; i++ {
		out = append(out, fillers[i%len(fillers)])
	}
	return out
}

// stringField reads a string value from a decoded object, returning ""
// when the key is absent or holds a non-string.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// stringList reads a list of strings from a decoded object. A missing
// key or non-list value yields an empty slice; non-string entries are
// skipped rather than failing the whole report.
func stringList(obj map[string]any, key string) []string {
	raw, _ := obj[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
