package model

import "golang.org/x/text/language"

// CanonicalLanguageTag normalizes a raw language code to its canonical
// BCP-47 form ("EN-us" -> "en-US", "iw" -> "he").
//
// Audio reference maps are keyed by arbitrary language codes supplied
// by the platform, so both storage and lookup must agree on one form.
// An unparseable tag is returned unchanged: the platform occasionally
// ships internal codes ("auto") that still need to round-trip as map
// keys.
func CanonicalLanguageTag(raw string) string {
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}

// NormalizeAudioRefs rewrites a language-keyed reference map onto
// canonical tags. When two raw keys canonicalize to the same tag the
// later one wins; callers receive maps from a single JSON object so
// this only matters for pathological payloads.
func NormalizeAudioRefs(refs map[string]string) map[string]string {
	if refs == nil {
		return nil
	}
	out := make(map[string]string, len(refs))
	for k, v := range refs {
		out[CanonicalLanguageTag(k)] = v
	}
	return out
}
