package turns

import (
	"fmt"
	"math"
	"strings"
)

// DefaultSpeaker is used when the upstream stream carries no speaker tag.
const DefaultSpeaker = "SPEAKER_00"

// DefaultGap is the inter-word silence (seconds) tolerated inside one turn.
const DefaultGap = 0.6

type Word struct {
	Speaker string  `json:"speaker,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

type Turn struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// Merge folds a time-ordered word stream into speaker turns. A turn closes
// when the speaker changes or the silence before the next word exceeds gap.
// The input is assumed ordered by start time; that is a caller precondition,
// not checked here.
func Merge(words []Word, gap float64) []Turn {
	var out []Turn
	if len(words) == 0 {
		return out
	}

	open := false
	var cur Turn
	var texts []string

	for _, w := range words {
		spk := w.Speaker
		if spk == "" {
			spk = DefaultSpeaker
		}
		ws := w.Start
		we := w.End
		if we < ws {
			we = ws
		}
		tx := strings.TrimSpace(w.Text)

		if !open {
			cur = Turn{Speaker: spk, Start: ws, End: we}
			texts = texts[:0]
			if tx != "" {
				texts = append(texts, tx)
			}
			open = true
			continue
		}
		if spk != cur.Speaker || ws-cur.End > gap {
			cur.Text = strings.Join(texts, " ")
			out = append(out, cur)
			cur = Turn{Speaker: spk, Start: ws, End: we}
			texts = texts[:0]
			if tx != "" {
				texts = append(texts, tx)
			}
			continue
		}
		cur.End = math.Max(cur.End, we)
		if tx != "" {
			texts = append(texts, tx)
		}
	}
	cur.Text = strings.Join(texts, " ")
	out = append(out, cur)
	return out
}

// ToText renders turns one per line as
// [MM:SS.ss-MM:SS.ss] SPEAKER: text
func ToText(ts []Turn) string {
	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		spk := t.Speaker
		if spk == "" {
			spk = DefaultSpeaker
		}
		lines = append(lines, fmt.Sprintf("[%s-%s] %s: %s", clock(t.Start), clock(t.End), spk, t.Text))
	}
	return strings.Join(lines, "\n")
}

func clock(sec float64) string {
	return fmt.Sprintf("%02d:%05.2f", int(sec)/60, math.Mod(sec, 60))
}
