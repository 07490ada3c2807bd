package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Speaker assignment (/assign) ---
type AssignReq struct {
	Words    []WordRec        `json:"words"`
	Segments []SpeakerSegment `json:"speaker_segments"`
}
type AssignResp struct {
	Words []WordRec `json:"words"`
}

// AssignSpeakers sends the aligned words and the diarization segments to the
// assignment service and returns the speaker-tagged word stream.
func (h *HTTP) AssignSpeakers(ctx context.Context, url string, words []WordRec, segs []SpeakerSegment) (*AssignResp, error) {
	b, _ := json.Marshal(AssignReq{Words: words, Segments: segs})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/assign", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("assign %s: %s", resp.Status, string(body))
	}

	var out AssignResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("assign decode: %w", err)
	}
	return &out, nil
}
