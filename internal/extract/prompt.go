// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/recall-engine/pkg/types"
)

// analysisPromptTmpl is the prompt sent to the Gemini API for each
// conversation. It embeds the transcript, the user's interest topics, and
// any accumulated rejection rules.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`Analyze the following conversation between a user and an AI assistant.

{{.Transcript}}

I want to remember the things that I learn from AI. Thus I'm planning to add useful concepts to Anki to leverage spaced repetition learning for better long term retention of what I learn.

My interests are: {{.Interests}}. Prioritize creating flashcards for information related to these topics.
{{.RulesSection}}
Your task:
1. Determine if there is information worth remembering (useful facts, commands, solutions, concepts, etc.)
2. If yes, create Anki flashcards for this information

Return your response as JSON with this exact format:
{
    "has_value": true/false,
    "flashcards": [
        {
            "front": "Question or prompt",
            "back": "Answer or information"
        }
    ]
}

Guidelines for flashcards:
- Make them concise and focused on one concept
- Avoid rote learning, include reasoning and explanation
- Include practical information like commands, configurations, solutions
- Use clear, specific questions
- Include context when needed
- If has_value is false, return an empty flashcards array

Only create flashcards if the information is genuinely useful to remember.
`))

// rejectionPromptTmpl is the prompt sent after the user rejects a proposed
// batch. It asks for one short, specific rule distinct from existing ones.
var rejectionPromptTmpl = template.Must(template.New("rejection").Parse(`The user was presented with the following proposed Anki flashcards and REJECTED them:

{{.Cards}}

These flashcards were generated from this conversation:
{{.Transcript}}
{{.FeedbackSection}}
The user's interests are: {{.Interests}}
{{.ExistingRulesSection}}
The user didn't want these flashcards added. Please analyze WHY they rejected them and write a SHORT, SPECIFIC rule (1-2 sentences) about what type of information should NOT be turned into flashcards.

Focus on identifying patterns like:
- Too basic/obvious information
- Too specific to one-time tasks
- Information the user likely already knows
- Overly verbose or poorly formatted cards
- Context-dependent information that won't be useful later

Return ONLY the rule, nothing else. Be concise and actionable. Make sure your rule is DIFFERENT from the existing rules listed above.
Example: "Don't create flashcards for basic Git commands like 'git status' or 'git add' that any developer would know."
`))

// renderAnalysisPrompt fills the analysis template. The rules section is
// empty when no rejection rules exist yet.
func renderAnalysisPrompt(transcript string, interests []string, ruleText string) (string, error) {
	rulesSection := ""
	if ruleText != "" {
		rulesSection = fmt.Sprintf("\nIMPORTANT - The user has previously rejected flashcards. Learn from these patterns and AVOID creating similar cards:\n%s\n", ruleText)
	}

	var buf bytes.Buffer
	err := analysisPromptTmpl.Execute(&buf, struct {
		Transcript   string
		Interests    string
		RulesSection string
	}{
		Transcript:   transcript,
		Interests:    strings.Join(interests, ", "),
		RulesSection: rulesSection,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderRejectionPrompt fills the rejection template.
func renderRejectionPrompt(cards []types.Flashcard, transcript, feedback string, interests []string, existingRules string) (string, error) {
	var cardLines []string
	for _, card := range cards {
		cardLines = append(cardLines, fmt.Sprintf("- Front: %s\n  Back: %s", card.Front, card.Back))
	}

	feedbackSection := ""
	if feedback != "" {
		feedbackSection = fmt.Sprintf("\nIMPORTANT - The user provided this feedback explaining their rejection:\n%q\n\nUse this feedback as the PRIMARY basis for generating the rule.\n", feedback)
	}

	existingSection := ""
	if existingRules != "" {
		existingSection = fmt.Sprintf("\nEXISTING RULES (do NOT duplicate these - create a new, specific rule that is different):\n%s\n", existingRules)
	}

	var buf bytes.Buffer
	err := rejectionPromptTmpl.Execute(&buf, struct {
		Cards                string
		Transcript           string
		FeedbackSection      string
		Interests            string
		ExistingRulesSection string
	}{
		Cards:                strings.Join(cardLines, "\n"),
		Transcript:           transcript,
		FeedbackSection:      feedbackSection,
		Interests:            strings.Join(interests, ", "),
		ExistingRulesSection: existingSection,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// geminiAPIURL is the Generative Language API endpoint pattern.
// Package-level var for test substitution.
var geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// GeminiBackend calls the Gemini generateContent API.
type GeminiBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// geminiRequest is the request body for the generateContent API.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent is one turn of the generateContent conversation.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiPart is a content block in a request or response.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the response body from the generateContent API.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt to the Gemini API and returns the first
// candidate's concatenated text parts.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf(geminiAPIURL, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gResp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var b strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
