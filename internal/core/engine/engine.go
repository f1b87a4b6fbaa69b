// Package engine turns a raw consultation transcript into a structured SOAP note.
//
// Process is pure apart from reading the clock for the metadata timestamp, and
// all lookup tables are read-only, so one Engine may serve concurrent callers.
package engine

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/engine/clinical"
	"github.com/eixo/medical-scribe/internal/core/engine/diarization"
	"github.com/eixo/medical-scribe/internal/core/engine/soap"
)

const (
	MinTranscriptRunes      = 10
	insufficientTextMessage = "Texto insuficiente para processamento. Mínimo de 10 caracteres."
)

type Engine struct {
	diarizer  *diarization.Classifier
	extractor *clinical.Extractor
	composer  *soap.Composer
	now       func() time.Time
}

type Option func(*Engine)

// WithClock replaces the wall clock used for ProcessingMetadata.ProcessedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		diarizer:  diarization.NewClassifier(),
		extractor: clinical.NewExtractor(),
		composer:  soap.NewComposer(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process never fails on content. Text shorter than MinTranscriptRunes after
// trimming yields an InsufficientInput failure; anything else gets a full result
// even when no line survives diarization.
//
// Invalid UTF-8 bytes are dropped first, so every field quotes only text that
// was actually in the transcript.
func (e *Engine) Process(text string) domain.ProcessingResult {
	text = strings.ToValidUTF8(text, "")
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTranscriptRunes {
		return domain.NewFailure(domain.FailureInsufficientInput, insufficientTextMessage)
	}

	dialog := e.diarizer.Diarize(text)
	record := e.extractor.Extract(text)
	note := e.composer.Compose(dialog, record)
	summary := e.composer.Summarize(note, record)

	meta := domain.ProcessingMetadata{
		UtteranceCount: len(dialog),
		ProcessedAt:    e.now().UTC().Format(time.RFC3339Nano),
	}
	for _, u := range dialog {
		switch u.Speaker {
		case domain.SpeakerDoctor:
			meta.DoctorCount++
		case domain.SpeakerPatient:
			meta.PatientCount++
		}
	}

	return domain.ProcessingResult{
		Success:     true,
		Dialog:      dialog,
		Record:      &record,
		Note:        &note,
		SummaryView: &summary,
		Metadata:    &meta,
	}
}
