package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestBallCatchAnswers(t *testing.T) {
	ball := Ball{
		Country:      "Reichtangle",
		CatchNames:   strPtr("German Empire; Reich;"),
		Translations: strPtr("Deutsches Reich"),
	}

	got := ball.CatchAnswers()
	expected := []string{"reichtangle", "german empire", "reich", "deutsches reich"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("index %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestBallEmoji(t *testing.T) {
	if got := (Ball{}).Emoji(); got != "" {
		t.Errorf("expected empty emoji, got %q", got)
	}
	if got := (Ball{EmojiID: "42"}).Emoji(); got != "<:ball:42>" {
		t.Errorf("unexpected emoji %q", got)
	}
}

func TestSpecialActiveAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name     string
		special  Special
		expected bool
	}{
		{name: "open ended", special: Special{}, expected: true},
		{name: "running", special: Special{StartDate: &before, EndDate: &after}, expected: true},
		{name: "not started", special: Special{StartDate: &after}, expected: false},
		{name: "ended", special: Special{EndDate: &before}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.special.ActiveAt(now); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBallInstanceStats(t *testing.T) {
	inst := BallInstance{
		ID:          26,
		Ball:        Ball{Country: "Djibouti", Health: 1000, Attack: 500},
		AttackBonus: 20,
		HealthBonus: -10,
	}

	if got := inst.Attack(); got != 600 {
		t.Errorf("expected attack 600, got %d", got)
	}
	if got := inst.Health(); got != 900 {
		t.Errorf("expected health 900, got %d", got)
	}
	if got := inst.Description(); got != "#1A Djibouti" {
		t.Errorf("unexpected description %q", got)
	}

	inst.Special = &Special{Name: "Shiny", Emoji: "✨"}
	if got := inst.Description(); got != "✨ #1A Djibouti" {
		t.Errorf("unexpected description %q", got)
	}
	if got := inst.SpecialName(); got != "Shiny" {
		t.Errorf("expected special Shiny, got %q", got)
	}
}
