package ai

import (
	"strings"
	"testing"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Bonjour le monde 🌍", "Bonjour le monde 🌍"},
		{"code fence stripped", "```\nLe post ici\n```", "Le post ici"},
		{"fence with language tag", "```text\nLe post ici\n```", "Le post ici"},
		{"wrapping quotes stripped", `"Une grande nouvelle pour le Sénégal"`, "Une grande nouvelle pour le Sénégal"},
		{"label stripped", "Post: Here is the text", "Here is the text"},
		{"whitespace trimmed", "  text  ", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.in); got != tt.want {
				t.Errorf("CleanResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPromptLanguage(t *testing.T) {
	fr := buildPrompt(&content.Item{Language: content.LangFrench, Headline: "Titre", Summary: "Résumé", Country: "Mali"})
	if !strings.Contains(fr, "en français") {
		t.Error("french item should get the french prompt")
	}
	if !strings.Contains(fr, "Titre") || !strings.Contains(fr, "Mali") {
		t.Error("prompt should embed the article fields")
	}

	en := buildPrompt(&content.Item{Language: content.LangEnglish, Headline: "Title", Summary: "Sum", Country: "Kenya"})
	if !strings.Contains(en, "in English") {
		t.Error("english item should get the english prompt")
	}
}
