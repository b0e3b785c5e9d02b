package ledger

// Uncapped disables the rake cap.
const Uncapped int64 = -1

type RakeRule struct {
	Percent      int64 `json:"percent"`
	Cap          int64 `json:"cap"`             // minor units, Uncapped for no cap
	NoFlopNoDrop bool  `json:"no_flop_no_drop"` // no rake on hands that end before the flop
}

// ComputeRake returns min(floor(pot*ratePercent/100), cap) and the remaining payout.
// The product is split to stay exact for large pots.
func ComputeRake(pot, ratePercent, cap int64) (rake int64, payout int64) {
	if pot <= 0 || ratePercent <= 0 {
		return 0, pot
	}

	rake = (pot/100)*ratePercent + (pot%100)*ratePercent/100
	if cap >= 0 && rake > cap {
		rake = cap
	}
	if rake > pot {
		rake = pot
	}

	return rake, pot - rake
}

func (r RakeRule) Compute(pot int64, reachedFlop bool) int64 {
	if r.NoFlopNoDrop && !reachedFlop {
		return 0
	}
	rake, _ := ComputeRake(pot, r.Percent, r.Cap)
	return rake
}
