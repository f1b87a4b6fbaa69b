package diarization

import (
	"testing"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		line string
		want domain.Speaker
	}{
		{name: "doctor cues", line: "Doutor, vamos examinar o abdome agora", want: domain.SpeakerDoctor},
		{name: "patient cues", line: "Estou sentindo dor nas costas desde ontem", want: domain.SpeakerPatient},
		{name: "short tie goes to doctor", line: "Bom dia, tudo bem com o senhor hoje", want: domain.SpeakerDoctor},
		{
			name: "long tie goes to patient",
			line: "Bom dia, tudo bem com o senhor hoje? Eu gostaria de saber como foi a sua semana inteira",
			want: domain.SpeakerPatient,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.line); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDiarizeDropsShortLinesAndKeepsOrder(t *testing.T) {
	got := NewClassifier().Diarize("Ok. Sim. Bom dia doutor.\nMe sinto cansado")

	want := []domain.Utterance{
		{Speaker: domain.SpeakerDoctor, Text: "Bom dia doutor"},
		{Speaker: domain.SpeakerPatient, Text: "Me sinto cansado"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d utterances, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("utterance %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestSplitLinesCountsRunes(t *testing.T) {
	// "ação" is four runes but six bytes.
	lines := SplitLines("ação.\nação ok")
	if len(lines) != 1 || lines[0] != "ação ok" {
		t.Fatalf("expected only the long line, got %q", lines)
	}
}

func TestDiarizeEmptyText(t *testing.T) {
	got := NewClassifier().Diarize("   ")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil dialog, got %#v", got)
	}
}
