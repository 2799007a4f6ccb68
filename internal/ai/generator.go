// Package ai turns an article into a ready-to-publish Facebook post.
// Gemini is the primary model; an OpenAI-compatible model takes over
// when Gemini is down and a key is configured.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

type Generator struct {
	gemini      *genai.Client
	geminiModel string
	openaiKey   string
	openaiModel string
}

func NewGenerator(ctx context.Context, geminiKey, geminiModel, openaiKey, openaiModel string) (*Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(geminiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Generator{
		gemini:      client,
		geminiModel: geminiModel,
		openaiKey:   openaiKey,
		openaiModel: openaiModel,
	}, nil
}

func (g *Generator) Close() {
	if g.gemini != nil {
		g.gemini.Close()
	}
}

// GeneratePost writes the post text for an item in its language.
func (g *Generator) GeneratePost(ctx context.Context, item *content.Item) (string, error) {
	prompt := buildPrompt(item)

	text, err := g.generateGemini(ctx, prompt)
	if err == nil {
		return CleanResponse(text), nil
	}
	log.Printf("⚠️ Gemini failed: %v", err)

	if g.openaiKey != "" {
		text, fbErr := g.generateOpenAI(ctx, prompt)
		if fbErr == nil {
			log.Printf("🔄 Fallback model produced the post")
			return CleanResponse(text), nil
		}
		log.Printf("⚠️ Fallback model failed too: %v", fbErr)
	}

	return "", fmt.Errorf("post generation failed: %w", err)
}

func (g *Generator) generateGemini(ctx context.Context, prompt string) (string, error) {
	model := g.gemini.GenerativeModel(g.geminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty Gemini response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(fmt.Sprintf("%v", part))
	}
	return sb.String(), nil
}

func (g *Generator) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(g.openaiKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.openaiModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(item *content.Item) string {
	if item.Language == content.LangFrench {
		return fmt.Sprintf(`Tu es le gestionnaire d'une page Facebook d'actualités africaines très suivie.

Écris une publication Facebook en français sur cette actualité:

Titre: %s
Résumé: %s
Pays: %s

Consignes:
- Commence par une accroche forte qui donne envie de lire.
- 2 à 3 paragraphes courts, faciles à lire sur mobile.
- Ajoute 2 à 3 émojis bien placés.
- Termine par une question pour faire réagir les lecteurs.
- Ajoute 3 à 5 hashtags pertinents à la fin.
- N'invente aucun fait qui n'est pas dans le résumé.

Réponds uniquement avec le texte de la publication.`,
			item.Headline, item.Summary, item.Country)
	}

	return fmt.Sprintf(`You manage a popular Facebook page covering African news.

Write a Facebook post in English about this story:

Headline: %s
Summary: %s
Country: %s

Guidelines:
- Open with a strong hook that makes people stop scrolling.
- 2 to 3 short paragraphs, easy to read on mobile.
- Use 2 to 3 well-placed emojis.
- End with a question that invites comments.
- Add 3 to 5 relevant hashtags at the end.
- Do not invent facts that are not in the summary.

Reply with the post text only.`,
		item.Headline, item.Summary, item.Country)
}

// CleanResponse strips model artifacts: code fences, wrapping quotes,
// and leading labels like "Post:".
func CleanResponse(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "\n"); i >= 0 && i < 20 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	for _, label := range []string{"Post:", "Publication:", "POST:"} {
		if strings.HasPrefix(s, label) {
			s = strings.TrimSpace(strings.TrimPrefix(s, label))
		}
	}

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	return s
}
