package scheduler_jobs

import (
	"github.com/rs/zerolog/log"

	"ballsDexBot/services/collectorService"
	"ballsDexBot/services/common"
	"ballsDexBot/services/rarityService"
)

type SweepResult struct {
	Pages     int
	Pending   int
	Cooldowns int
}

func (r SweepResult) Total() int {
	return r.Pages + r.Pending + r.Cooldowns
}

// SweepState drops expired paginators, deletion confirmations and in-memory
// cooldowns. Redis keys expire on their own.
func SweepState() SweepResult {
	result := SweepResult{
		Pages:   common.Pages.Sweep(),
		Pending: collectorService.SweepPending(),
	}
	if memory, ok := rarityService.Cooldown.(*common.MemoryCooldown); ok {
		result.Cooldowns = memory.Sweep()
	}

	if result.Total() > 0 {
		log.Debug().
			Int("pages", result.Pages).
			Int("pending", result.Pending).
			Int("cooldowns", result.Cooldowns).
			Msg("swept expired state")
	}
	return result
}
