package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/zenscreen/zenscreen/internal/engine"
)

// Generator is the content generation bridge: optional flavor content from
// a generative model. Every operation degrades to static fallback data when
// the bridge is unconfigured or fails; it is never a dependency for
// progression, so no method returns an error.
type Generator struct {
	client *genai.Client // nil when no API key is configured
	model  string
}

// NewGenerator creates the bridge. An empty apiKey yields a generator that
// always answers with fallbacks.
func NewGenerator(ctx context.Context, apiKey, model string) *Generator {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	g := &Generator{model: model}
	if apiKey == "" {
		log.Printf("content bridge disabled: no API key, using static content")
		return g
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("content bridge unavailable: %v", err)
		return g
	}
	g.client = c
	return g
}

// Enabled reports whether the bridge has a live model behind it.
func (g *Generator) Enabled() bool {
	return g != nil && g.client != nil
}

// taskSuggestion is the JSON shape requested from the model.
type taskSuggestion struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	RewardMinutes   int    `json:"rewardMinutes"`
}

// fallbackSuggestions are returned whenever generation is unavailable.
func fallbackSuggestions() []taskSuggestion {
	return []taskSuggestion{
		{Title: "Hydration Check", Description: "Drink a glass of water", DurationMinutes: 5, RewardMinutes: 5},
		{Title: "Eye Rest", Description: "Look at something 20ft away for 20s", DurationMinutes: 2, RewardMinutes: 2},
	}
}

// SuggestTasks generates healthy, non-screen task ideas from a free-text
// interest string. Suggestions with non-positive durations or negative
// rewards are dropped before they reach the task list.
func (g *Generator) SuggestTasks(ctx context.Context, interests string) []engine.Task {
	suggestions := fallbackSuggestions()

	if g.Enabled() {
		prompt := fmt.Sprintf(
			"Generate 3 healthy, non-screen related tasks for someone interested in %s. "+
				"Make the reward slightly higher than the duration to incentivize them.", interests)
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":           {Type: genai.TypeString},
						"description":     {Type: genai.TypeString},
						"durationMinutes": {Type: genai.TypeInteger},
						"rewardMinutes":   {Type: genai.TypeInteger},
					},
				},
			},
		})
		if err != nil {
			log.Printf("task suggestion failed, using fallback: %v", err)
		} else {
			var generated []taskSuggestion
			if err := json.Unmarshal([]byte(resp.Text()), &generated); err != nil {
				log.Printf("task suggestion returned bad JSON, using fallback: %v", err)
			} else if len(generated) > 0 {
				suggestions = generated
			}
		}
	}

	var tasks []engine.Task
	for _, s := range suggestions {
		task, err := engine.NewTask(s.Title, s.Description, s.DurationMinutes, s.RewardMinutes)
		if err != nil {
			continue
		}
		task.IsCustom = false
		task.Generated = true
		tasks = append(tasks, task)
	}
	return tasks
}

// ClanLore generates a one-sentence quest description for a clan name.
func (g *Generator) ClanLore(ctx context.Context, clanName string) string {
	const fallback = "Unite to defeat the procrastination demon!"
	if !g.Enabled() {
		return fallback
	}
	prompt := fmt.Sprintf(
		"Write a one sentence epic fantasy quest description for a clan named %q whose goal is to reduce screen time.", clanName)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("clan lore generation failed, using fallback: %v", err)
		return fallback
	}
	if text := resp.Text(); text != "" {
		return text
	}
	return fallback
}

// EvolutionText generates flavor text for an avatar reaching a stage.
func (g *Generator) EvolutionText(ctx context.Context, stage int) string {
	const fallback = "You have evolved!"
	if !g.Enabled() {
		return fallback
	}
	prompt := fmt.Sprintf(
		"Describe a digital avatar evolving to stage %d of 5 in a cyberpunk fantasy style. One sentence.", stage)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("evolution text generation failed, using fallback: %v", err)
		return fallback
	}
	if text := resp.Text(); text != "" {
		return text
	}
	return fallback
}
