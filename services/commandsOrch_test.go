package services

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func findOption(options []*discordgo.ApplicationCommandOption, name string) *discordgo.ApplicationCommandOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func TestCommands(t *testing.T) {
	commands := Commands()

	names := map[string]*discordgo.ApplicationCommand{}
	for _, cmd := range commands {
		if _, dup := names[cmd.Name]; dup {
			t.Errorf("command %s registered twice", cmd.Name)
		}
		names[cmd.Name] = cmd
	}

	for _, name := range []string{"battle", "collector", "rarity_list", "spawn-channel", "spawn-disable"} {
		if _, ok := names[name]; !ok {
			t.Errorf("expected command %s", name)
		}
	}
}

func TestBattleCommandShape(t *testing.T) {
	var battle *discordgo.ApplicationCommand
	for _, cmd := range Commands() {
		if cmd.Name == "battle" {
			battle = cmd
		}
	}
	if battle == nil {
		t.Fatal("battle command missing")
	}

	start := findOption(battle.Options, "start")
	if start == nil || start.Type != discordgo.ApplicationCommandOptionSubCommand {
		t.Fatal("expected start subcommand")
	}
	opponent := findOption(start.Options, "opponent")
	if opponent == nil || !opponent.Required || opponent.Type != discordgo.ApplicationCommandOptionUser {
		t.Error("expected a required opponent user option")
	}
	if maxAmount := findOption(start.Options, "max_amount"); maxAmount == nil || maxAmount.Required {
		t.Error("expected an optional max_amount option")
	}

	bulk := findOption(battle.Options, "bulk")
	if bulk == nil || bulk.Type != discordgo.ApplicationCommandOptionSubCommandGroup {
		t.Fatal("expected bulk group")
	}
	for _, name := range []string{"add", "remove"} {
		sub := findOption(bulk.Options, name)
		if sub == nil {
			t.Fatalf("expected bulk %s", name)
		}
		if ball := findOption(sub.Options, "countryball"); ball == nil || ball.Required {
			t.Errorf("expected optional countryball on bulk %s", name)
		}
	}

	admin := findOption(battle.Options, "admin")
	if admin == nil || findOption(admin.Options, "clear") == nil {
		t.Error("expected admin clear")
	}
}

func TestCollectorCheckChoices(t *testing.T) {
	var collector *discordgo.ApplicationCommand
	for _, cmd := range Commands() {
		if cmd.Name == "collector" {
			collector = cmd
		}
	}
	if collector == nil {
		t.Fatal("collector command missing")
	}

	admin := findOption(collector.Options, "admin")
	if admin == nil {
		t.Fatal("expected admin group")
	}
	check := findOption(admin.Options, "check")
	if check == nil {
		t.Fatal("expected check subcommand")
	}
	option := findOption(check.Options, "option")
	if option == nil {
		t.Fatal("expected option choice")
	}

	values := map[string]bool{}
	for _, choice := range option.Choices {
		values[choice.Value.(string)] = true
	}
	for _, want := range []string{"ALL", "UNMET", "DELETE"} {
		if !values[want] {
			t.Errorf("expected choice %s", want)
		}
	}
}
