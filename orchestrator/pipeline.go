package orchestrator

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/boardroomlabs/speakermap/clients"
	cfg "github.com/boardroomlabs/speakermap/config"
	"github.com/boardroomlabs/speakermap/turns"
)

type Pipeline struct {
	cfg  *cfg.Root
	http *clients.HTTP
}

func NewPipeline(c *cfg.Root) *Pipeline {
	return &Pipeline{cfg: c, http: clients.NewHTTP()}
}

// Run drives one recording through the external collaborators: transcribe,
// align to word timings, diarize, assign speakers to words, then merge the
// word stream into turns. Any stage failing aborts the whole run.
func (p *Pipeline) Run(ctx context.Context, audioPath, recordingID, language string) (*Result, error) {
	log.WithField("audio", audioPath).Info("transcribing")
	asr, err := p.http.Transcribe(ctx, p.cfg.Services.ASR.URL, audioPath, language)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if len(asr.Segments) == 0 {
		return nil, errors.New("transcription returned no segments")
	}

	lang := language
	if lang == "" {
		lang = asr.Language
	}
	if lang == "" {
		lang = "en"
	}

	log.WithField("language", lang).Info("aligning word timings")
	aligned, err := p.http.Align(ctx, p.cfg.Services.Align.URL, audioPath, lang, asr.Segments)
	if err != nil {
		return nil, fmt.Errorf("alignment failed: %w", err)
	}

	log.Info("diarizing")
	diar, err := p.http.Diarize(ctx, p.cfg.Services.Diarization.URL, audioPath)
	if err != nil {
		return nil, fmt.Errorf("diarization failed: %w", err)
	}

	log.Info("assigning speakers to words")
	assigned, err := p.http.AssignSpeakers(ctx, p.cfg.Services.Assign.URL, aligned.Words, diar.Segments)
	if err != nil {
		return nil, fmt.Errorf("speaker assignment failed: %w", err)
	}
	words := clients.ToWords(assigned.Words)
	if len(words) == 0 {
		return nil, errors.New("speaker assignment returned empty content")
	}
	if n := len(turns.Speakers(words)); n < 2 {
		return nil, fmt.Errorf("diarization succeeded but only %d unique speaker after assignment", n)
	}

	gap := p.cfg.Segmenter.Gap
	if gap <= 0 {
		gap = turns.DefaultGap
	}
	merged := turns.Merge(words, gap)
	log.WithFields(log.Fields{"words": len(words), "turns": len(merged)}).Info("segmented turns")

	return &Result{
		RecordingID: recordingID,
		AudioPath:   audioPath,
		Language:    lang,
		Words:       words,
		Turns:       merged,
	}, nil
}
