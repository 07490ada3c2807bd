package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/boardroomlabs/speakermap/turns"
)

// WordRec is one word-level record as the alignment and speaker-assignment
// services emit it. The text may arrive under "text" or "word", end may be
// missing, speaker is filled only after assignment.
type WordRec struct {
	Speaker string   `json:"speaker"`
	Start   float64  `json:"start"`
	End     *float64 `json:"end"`
	Text    string   `json:"text"`
	Word    string   `json:"word"`
}

// ToWord normalizes a raw record into a turns.Word: "word" stands in for a
// blank "text", a missing end defaults to the word's own start.
func (r WordRec) ToWord() turns.Word {
	text := r.Text
	if strings.TrimSpace(text) == "" && strings.TrimSpace(r.Word) != "" {
		text = r.Word
	}
	end := r.Start
	if r.End != nil {
		end = *r.End
	}
	return turns.Word{Speaker: r.Speaker, Start: r.Start, End: end, Text: text}
}

// ToWords converts a record batch in order.
func ToWords(recs []WordRec) []turns.Word {
	out := make([]turns.Word, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToWord())
	}
	return out
}

type AlignResp struct {
	Words []WordRec `json:"words"`
}

// Align uploads the audio with the ASR segments and returns word-level
// timings.
func (h *HTTP) Align(ctx context.Context, url, audioPath, language string, segs []Segment) (*AlignResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	segJSON, err := json.Marshal(segs)
	if err != nil {
		return nil, err
	}
	if err := w.WriteField("segments", string(segJSON)); err != nil {
		return nil, err
	}
	if err := w.WriteField("language", language); err != nil {
		return nil, err
	}
	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/align", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("align %s: %s", resp.Status, string(body))
	}

	var out AlignResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("align decode: %w", err)
	}
	return &out, nil
}
