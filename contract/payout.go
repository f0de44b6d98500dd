package contract

import "math"

// payoutFor computes what a claimant with `burned` votes receives from v.
//
// float: floor(deposited * burned/total) in double precision. Shares can drift
// by rounding. The sum never exceeds the deposit by more than float error, and
// the ledger refuses anything the escrow cannot pay.
//
// integer: floor(deposited*burned/total) with a 256-bit product. The claim that
// brings ClaimedVotes up to TotalBurned takes whatever is left, so the escrow
// ends at exactly zero.
func payoutFor(mode PayoutMode, v *Vault, burned U128) U128 {
	if burned.IsZero() || v.TotalBurned.IsZero() {
		return U128{}
	}
	switch mode {
	case PayoutInteger:
		claimedAfter, ok := v.ClaimedVotes.Add(burned)
		if ok && claimedAfter.Cmp(v.TotalBurned) >= 0 {
			if v.TotalDeposited.Cmp(v.TotalClaimed) <= 0 {
				return U128{}
			}
			return v.TotalDeposited.Sub(v.TotalClaimed)
		}
		return v.TotalDeposited.MulDiv(burned, v.TotalBurned)
	default:
		ratio := burned.Float64() / v.TotalBurned.Float64()
		share := math.Floor(v.TotalDeposited.Float64() * ratio)
		if share >= 18446744073709551615.0 {
			return U128From64(math.MaxUint64)
		}
		if share <= 0 || math.IsNaN(share) {
			return U128{}
		}
		return U128From64(uint64(share))
	}
}
