package client

import (
	"context"
	"testing"
)

func TestGenerator_DisabledWithoutKey(t *testing.T) {
	g := NewGenerator(context.Background(), "", "")
	if g.Enabled() {
		t.Fatal("generator should be disabled without an API key")
	}
}

func TestGenerator_SuggestTasksFallback(t *testing.T) {
	g := NewGenerator(context.Background(), "", "")

	tasks := g.SuggestTasks(context.Background(), "chess")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2 fallbacks", len(tasks))
	}
	if tasks[0].Title != "Hydration Check" || tasks[1].Title != "Eye Rest" {
		t.Errorf("unexpected fallback titles: %q, %q", tasks[0].Title, tasks[1].Title)
	}
	for _, task := range tasks {
		if task.ID == "" {
			t.Errorf("task %q missing id", task.Title)
		}
		if !task.Generated {
			t.Errorf("task %q not marked generated", task.Title)
		}
		if task.IsCustom {
			t.Errorf("task %q should not be marked custom", task.Title)
		}
		if task.DurationMinutes <= 0 {
			t.Errorf("task %q has non-positive duration", task.Title)
		}
	}
}

func TestGenerator_TextFallbacks(t *testing.T) {
	g := NewGenerator(context.Background(), "", "")
	ctx := context.Background()

	if got := g.ClanLore(ctx, "Screen Slayers"); got != "Unite to defeat the procrastination demon!" {
		t.Errorf("ClanLore = %q", got)
	}
	if got := g.EvolutionText(ctx, 3); got != "You have evolved!" {
		t.Errorf("EvolutionText = %q", got)
	}
}
