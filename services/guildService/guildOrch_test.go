package guildService

import (
	"testing"

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

func TestEnableSpawns(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `guilds` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	guild := &models.Guild{ID: 1, GuildID: "g1", GuildName: "Test"}
	if err := EnableSpawns(db, guild, "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !guild.SpawnEnabled {
		t.Error("expected spawning to be enabled")
	}
	if guild.SpawnChannelID == nil || *guild.SpawnChannelID != "c1" {
		t.Errorf("expected channel c1, got %v", guild.SpawnChannelID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDisableSpawns(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `guilds` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	channel := "c1"
	guild := &models.Guild{ID: 1, GuildID: "g1", SpawnChannelID: &channel, SpawnEnabled: true}
	if err := DisableSpawns(db, guild); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guild.SpawnEnabled {
		t.Error("expected spawning to be disabled")
	}
	if guild.SpawnChannelID == nil {
		t.Error("expected channel to be kept")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestSpawnChannel(t *testing.T) {
	current := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "here",
		Data:      discordgo.ApplicationCommandInteractionData{Name: "spawn-channel"},
	}}
	if got := spawnChannel(current); got != "here" {
		t.Errorf("expected current channel, got %q", got)
	}

	chosen := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "here",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "spawn-channel",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "channel", Type: discordgo.ApplicationCommandOptionChannel, Value: "there"},
			},
		},
	}}
	if got := spawnChannel(chosen); got != "there" {
		t.Errorf("expected chosen channel, got %q", got)
	}
}
