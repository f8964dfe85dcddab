package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	PagesPrefix    = "pages_"
	DefaultPerPage = 10
	pagesTTL       = time.Hour
)

// Pages holds every live paginator, keyed by the id embedded in its buttons.
var Pages = NewTTLStore[*Paginator](pagesTTL)

type PageField struct {
	Name  string
	Value string
}

// Paginator renders a list of embed fields a page at a time.
type Paginator struct {
	Description string
	Color       int
	Author      *discordgo.MessageEmbedAuthor
	Fields      []PageField
	PerPage     int
}

func (p *Paginator) perPage() int {
	if p.PerPage <= 0 {
		return DefaultPerPage
	}
	return p.PerPage
}

func (p *Paginator) PageCount() int {
	if len(p.Fields) == 0 {
		return 1
	}
	return (len(p.Fields) + p.perPage() - 1) / p.perPage()
}

func (p *Paginator) clamp(page int) int {
	if page < 0 {
		return 0
	}
	if page >= p.PageCount() {
		return p.PageCount() - 1
	}
	return page
}

func (p *Paginator) Embed(page int) *discordgo.MessageEmbed {
	page = p.clamp(page)
	start := page * p.perPage()
	end := start + p.perPage()
	if end > len(p.Fields) {
		end = len(p.Fields)
	}

	embed := &discordgo.MessageEmbed{
		Description: p.Description,
		Color:       p.Color,
		Author:      p.Author,
		Fields:      []*discordgo.MessageEmbedField{},
	}
	for _, field := range p.Fields[start:end] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: false,
		})
	}
	if p.PageCount() > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", page+1, p.PageCount()),
		}
	}
	return embed
}

func (p *Paginator) Components(id string, page int) []discordgo.MessageComponent {
	if p.PageCount() <= 1 {
		return nil
	}
	page = p.clamp(page)
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					CustomID: fmt.Sprintf("%sprev_%s_%d", PagesPrefix, id, page),
					Style:    discordgo.PrimaryButton,
					Disabled: page == 0,
				},
				discordgo.Button{
					Label:    "Next",
					CustomID: fmt.Sprintf("%snext_%s_%d", PagesPrefix, id, page),
					Style:    discordgo.PrimaryButton,
					Disabled: page == p.PageCount()-1,
				},
			},
		},
	}
}

// SendPages registers the paginator and shows its first page. When deferred is
// true the interaction was already acknowledged and a followup is used.
func SendPages(s *discordgo.Session, i *discordgo.InteractionCreate, p *Paginator, deferred bool) error {
	id := uuid.NewString()
	Pages.Put(id, p)

	embeds := []*discordgo.MessageEmbed{p.Embed(0)}
	components := p.Components(id, 0)

	if deferred {
		return Followup(s, i, &discordgo.WebhookParams{
			Embeds:     embeds,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		})
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

// ParsePageButton splits "pages_<next|prev>_<id>_<page>" into the paginator
// id and the page to show next.
func ParsePageButton(customID string) (string, int, error) {
	parts := strings.Split(strings.TrimPrefix(customID, PagesPrefix), "_")
	if len(parts) != 3 {
		return "", 0, fmt.Errorf("invalid page button %q", customID)
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid page number in %q: %w", customID, err)
	}
	switch parts[0] {
	case "next":
		page++
	case "prev":
		page--
	default:
		return "", 0, fmt.Errorf("invalid page direction in %q", customID)
	}
	return parts[1], page, nil
}

func HandlePageButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	id, page, err := ParsePageButton(customID)
	if err != nil {
		return err
	}

	p, ok := Pages.Get(id)
	if !ok {
		return RespondEphemeral(s, i, "This menu has expired, please run the command again.")
	}
	page = p.clamp(page)

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{p.Embed(page)},
			Components: p.Components(id, page),
		},
	})
}
