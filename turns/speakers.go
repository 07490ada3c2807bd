package turns

import (
	"sort"
	"strconv"
	"strings"
)

// Speakers returns the unique speaker tags in the word stream, ordered by
// their numeric suffix (SPEAKER_7 before SPEAKER_12). Tags that do not carry
// one sort last, alphabetically.
func Speakers(words []Word) []string {
	seen := map[string]bool{}
	for _, w := range words {
		spk := w.Speaker
		if spk == "" {
			spk = DefaultSpeaker
		}
		seen[spk] = true
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		a, aok := speakerIndex(tags[i])
		b, bok := speakerIndex(tags[j])
		if aok != bok {
			return aok
		}
		if aok && a != b {
			return a < b
		}
		return tags[i] < tags[j]
	})
	return tags
}

// SpeakerIndex extracts the ordinal from a diarization tag like "SPEAKER_03".
func SpeakerIndex(tag string) (int, bool) { return speakerIndex(tag) }

func speakerIndex(tag string) (int, bool) {
	i := strings.LastIndex(tag, "_")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(tag[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Substitute returns copies of the words with each speaker tag replaced
// through the mapping; tags without a mapping are kept as-is.
func Substitute(words []Word, repl map[string]string) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		spk := w.Speaker
		if spk == "" {
			spk = DefaultSpeaker
		}
		if r, ok := repl[spk]; ok {
			spk = r
		}
		w.Speaker = spk
		out[i] = w
	}
	return out
}

// SubstituteTurns is Substitute for already-merged turns.
func SubstituteTurns(ts []Turn, repl map[string]string) []Turn {
	out := make([]Turn, len(ts))
	for i, t := range ts {
		spk := t.Speaker
		if spk == "" {
			spk = DefaultSpeaker
		}
		if r, ok := repl[spk]; ok {
			spk = r
		}
		t.Speaker = spk
		out[i] = t
	}
	return out
}
