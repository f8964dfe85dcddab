package collectorService

// Tier describes a card kind and how many instances of a ball a player must
// hold to earn it. Requirements scale linearly with rarity between the rarest
// ball (TopRarity, TopReq) and the most common one (CommonRarity, CommonReq).
type Tier struct {
	Name         string
	SpecialName  string
	TopReq       float64
	TopRarity    float64
	CommonReq    float64
	CommonRarity float64
	Rounding     float64
	// ShinyOnly counts only Shiny instances towards the requirement.
	ShinyOnly bool
}

const ShinySpecial = "Shiny"

var (
	CollectorTier = Tier{
		Name:         "collector",
		SpecialName:  "Collector",
		TopReq:       70,
		TopRarity:    0.01,
		CommonReq:    750,
		CommonRarity: 0.121,
		Rounding:     10,
	}
	DiamondTier = Tier{
		Name:         "diamond",
		SpecialName:  "Diamond",
		TopReq:       3,
		TopRarity:    0.01,
		CommonReq:    12,
		CommonRarity: 0.121,
		Rounding:     1,
		ShinyOnly:    true,
	}
)

func TierFor(diamond bool) Tier {
	if diamond {
		return DiamondTier
	}
	return CollectorTier
}

func (t Tier) gradient() float64 {
	return (t.CommonReq - t.TopReq) / (t.CommonRarity - t.TopRarity)
}

// Requirement truncates the interpolated amount, then rounds it down to a multiple of Rounding.
func (t Tier) Requirement(rarity float64) int {
	raw := t.gradient()*(rarity-t.TopRarity) + t.TopReq
	return int(float64(int(raw/t.Rounding)) * t.Rounding)
}

// Title is the capitalised tier name used in embed headers.
func (t Tier) Title() string {
	return t.SpecialName
}

// shinyText is inserted before ball names when only shinies count.
func (t Tier) shinyText() string {
	if t.ShinyOnly {
		return " Shiny"
	}
	return ""
}
