package orchestrator

import "github.com/boardroomlabs/speakermap/turns"

// Result is one processed recording, held in memory for the session.
type Result struct {
	RecordingID string       `json:"recording_id"`
	AudioPath   string       `json:"audio_path"`
	Language    string       `json:"language"`
	Words       []turns.Word `json:"words"`
	Turns       []turns.Turn `json:"turns"`
}
