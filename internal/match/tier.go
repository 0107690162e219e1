package match

// InfoTier is how much disclosure an opportunity owes a donor before the
// donor can act, decided by the requested amount.
type InfoTier string

const (
	TierNone     InfoTier = "none"
	TierBasic    InfoTier = "basic"
	TierDetailed InfoTier = "detailed"
)

const (
	basicTierFloor    = 25000
	detailedTierFloor = 250000
)

// DetermineInfoTier maps a requested amount to its disclosure tier. A nil
// amount is treated as unknown and needs no disclosure.
func DetermineInfoTier(amount *float64) InfoTier {
	switch {
	case amount == nil || *amount < basicTierFloor:
		return TierNone
	case *amount <= detailedTierFloor:
		return TierBasic
	default:
		return TierDetailed
	}
}
