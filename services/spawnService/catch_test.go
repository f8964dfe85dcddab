package spawnService

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bwmarrin/discordgo"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"ballsDexBot/models"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})

	return gormDB, mock, err
}

func strPtr(s string) *string { return &s }

func TestNormaliseGuess(t *testing.T) {
	tests := map[string]string{
		"  France ":        "france",
		"Côte d’Ivoire":    "côte d'ivoire",
		"‘Quoted’":         "'quoted'",
		"“Double” Trouble": "\"double\" trouble",
	}
	for input, expected := range tests {
		if got := normaliseGuess(input); got != expected {
			t.Errorf("%q: expected %q, got %q", input, expected, got)
		}
	}
}

func TestMatchesBall(t *testing.T) {
	ball := models.Ball{
		Country:      "Côte d'Ivoire",
		CatchNames:   strPtr("Ivory Coast"),
		Translations: strPtr("Elfenbeinküste"),
	}

	for _, guess := range []string{"côte d’ivoire", "IVORY COAST", " elfenbeinküste "} {
		if !matchesBall(ball, guess) {
			t.Errorf("expected %q to match", guess)
		}
	}
	for _, guess := range []string{"", "ivory", "france"} {
		if matchesBall(ball, guess) {
			t.Errorf("expected %q not to match", guess)
		}
	}
}

func TestCatchMessage(t *testing.T) {
	t.Run("New ball", func(t *testing.T) {
		result := &CatchResult{
			Instance: models.BallInstance{ID: 26, Ball: models.Ball{Country: "France"}, AttackBonus: 5, HealthBonus: -12},
			IsNew:    true,
		}
		expected := "<@1>, **France** has happily joined your collection! `(#1A, +5%/-12%)`\n\n" +
			"This is a **new countryball** that has been added to your completion!"
		if got := catchMessage("1", result); got != expected {
			t.Errorf("unexpected message:\n%s", got)
		}
	})

	t.Run("Special with phrase", func(t *testing.T) {
		result := &CatchResult{
			Instance: models.BallInstance{
				ID:      255,
				Ball:    models.Ball{Country: "Peru"},
				Special: &models.Special{Name: "Shiny", CatchPhrase: strPtr("It's shiny!")},
			},
		}
		expected := "<@2>, **Peru** has happily joined your collection! `(#FF, +0%/+0%)`\n\n*It's shiny!*"
		if got := catchMessage("2", result); got != expected {
			t.Errorf("unexpected message:\n%s", got)
		}
	})
}

func TestModalGuess(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: CatchModalPrefix + "abc",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: guessInputID, Value: "France"},
				},
			},
		},
	}
	if got := modalGuess(data); got != "France" {
		t.Errorf("expected France, got %q", got)
	}
	if got := modalGuess(discordgo.ModalSubmitInteractionData{}); got != "" {
		t.Errorf("expected empty guess, got %q", got)
	}
}

func TestCatchBall(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT \\* FROM `players`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "discord_id"}).AddRow(7, "123"))
	mock.ExpectQuery("SELECT \\* FROM `specials`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rarity"}))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `ball_instances`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ball_instances`").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	spawnedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	spawn := Spawn{
		ID:        "abc",
		Ball:      models.Ball{ID: 3, Country: "France"},
		GuildID:   "guild",
		SpawnedAt: spawnedAt,
	}
	user := &discordgo.User{ID: "123", Username: "alice"}

	result, err := CatchBall(db, spawn, user, rand.New(rand.NewPCG(1, 2)), spawnedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsNew {
		t.Error("expected first catch to be new")
	}
	inst := result.Instance
	if inst.ID != 42 || inst.BallID != 3 || inst.PlayerID != 7 {
		t.Errorf("unexpected instance %+v", inst)
	}
	if inst.Special != nil {
		t.Errorf("expected no special, got %v", inst.Special)
	}
	if inst.ServerID == nil || *inst.ServerID != "guild" {
		t.Errorf("expected server ID guild, got %v", inst.ServerID)
	}
	if inst.SpawnedTime == nil || !inst.SpawnedTime.Equal(spawnedAt) {
		t.Errorf("expected spawned time %v, got %v", spawnedAt, inst.SpawnedTime)
	}
	if inst.AttackBonus < -100 || inst.AttackBonus > 20 || inst.HealthBonus < -100 || inst.HealthBonus > 20 {
		t.Errorf("bonuses out of range: %d/%d", inst.AttackBonus, inst.HealthBonus)
	}
	if !strings.Contains(catchMessage(user.ID, result), "#2A") {
		t.Error("expected catch message to show the hex ID")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
