package outfit

import "strings"

// minSentenceTokens is the shortest whitespace-token count an entry may
// have and still count as a factual sentence.
const minSentenceTokens = 4

// Sanitize applies the strict consistency pass to a normalized report
// and returns a new one; the input is left untouched. The steps run in
// a fixed order:
//
//  1. flags are re-coerced onto the closed enum,
//  2. entries mentioning a not_detected garment key are removed,
//  3. entries shorter than four tokens are removed,
//  4. lists are truncated or padded back to their target lengths.
//
// Length repair runs last so that removals never leave a short list.
func Sanitize(r *Report) *Report {
	out := &Report{OverallVibe: r.OverallVibe}
	for _, k := range ItemKeys {
		out.ItemFlags.Set(k, coerceFlag(string(r.ItemFlags.Get(k))))
	}

	works := append([]string(nil), r.WhatWorks...)
	needs := append([]string(nil), r.WhatNeedsWork...)
	sugg := append([]string(nil), r.Suggestions...)

	for _, k := range ItemKeys {
		if out.ItemFlags.Get(k) != FlagNotDetected {
			continue
		}
		works = dropMentions(works, string(k))
		needs = dropMentions(needs, string(k))
		sugg = dropMentions(sugg, string(k))
	}

	works = dropFragments(works)
	needs = dropFragments(needs)
	sugg = dropFragments(sugg)

	out.WhatWorks = fitList(works, WhatWorksLen, whatWorksFillers)
	out.WhatNeedsWork = fitList(needs, WhatNeedsWorkLen, whatNeedsWorkFillers)
	out.Suggestions = fitList(sugg, SuggestionsLen, suggestionsFillers)
	return out
}

// dropMentions removes entries containing key as a case-insensitive
// substring. Matching is substring based, so a key occurring inside a
// longer word also triggers removal.
func dropMentions(entries []string, key string) []string {
	kept := entries[:0]
	for _, s := range entries {
		if !strings.Contains(strings.ToLower(s), key) {
			kept = append(kept, s)
		}
	}
	return kept
}

// dropFragments removes entries that do not read as sentences.
func dropFragments(entries []string) []string {
	kept := entries[:0]
	for _, s := range entries {
		if len(strings.Fields(s)) >= minSentenceTokens {
			kept = append(kept, s)
		}
	}
	return kept
}
