package api

import (
	"github.com/CosmWasm/tinyjson/jwriter"

	"okinoko_vault/contract"
	"okinoko_vault/sdk"
)

// 128-bit counters are written as decimal strings, JSON numbers lose precision past 2^53.

// EncodeReceipt renders a receipt the way POST /tx returns it, used by the replay CLI.
func EncodeReceipt(r *sdk.Receipt) []byte {
	w := &jwriter.Writer{}
	writeReceipt(w, r)
	data, _ := w.BuildBytes()
	return data
}

func writeReceipt(w *jwriter.Writer, r *sdk.Receipt) {
	w.RawString(`{"tx_id":`)
	w.String(r.TxID)
	w.RawString(`,"action":`)
	w.String(r.Action)
	w.RawString(`,"sender":`)
	w.String(r.Sender.String())
	w.RawString(`,"timestamp":`)
	w.Int64(r.Timestamp)
	w.RawString(`,"success":`)
	w.Bool(r.Success)
	if r.Ret != "" {
		w.RawString(`,"ret":`)
		w.String(r.Ret)
	}
	if r.Code != "" {
		w.RawString(`,"code":`)
		w.String(r.Code)
		w.RawString(`,"error":`)
		w.String(r.Err)
	}
	w.RawString(`,"logs":[`)
	for i, l := range r.Logs {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(l)
	}
	w.RawString(`]}`)
}

func writeRegistry(w *jwriter.Writer, reg *contract.GlobalRegistry) {
	w.RawString(`{"address":`)
	w.String(reg.Address.String())
	w.RawString(`,"admin":`)
	w.String(reg.Admin.String())
	w.RawString(`,"governance_asset":`)
	w.String(reg.GovernanceAsset.String())
	w.RawString(`,"staked_asset":`)
	w.String(reg.StakedAsset.String())
	w.RawString(`,"payout_mode":`)
	w.String(reg.PayoutMode.String())
	w.RawString(`,"lock_project_after_deposit":`)
	w.Bool(reg.LockProjectAfterDeposit)
	w.RawString(`,"initialized_at":`)
	w.Int64(reg.InitializedAt)
	w.RawByte('}')
}

func writeVault(w *jwriter.Writer, v *contract.Vault) {
	w.RawString(`{"id":`)
	w.Uint64(v.ID)
	w.RawString(`,"address":`)
	w.String(v.Address.String())
	w.RawString(`,"owner":`)
	w.String(v.Owner.String())
	w.RawString(`,"staked_asset":`)
	w.String(v.StakedAsset.String())
	w.RawString(`,"vote_asset":`)
	w.String(v.VoteAsset.String())
	w.RawString(`,"project_asset":`)
	if v.ProjectConfigured() {
		w.String(v.ProjectAsset.String())
	} else {
		w.RawString("null")
	}
	w.RawString(`,"escrow":`)
	if v.Escrow.IsZero() {
		w.RawString("null")
	} else {
		w.String(v.Escrow.String())
	}
	w.RawString(`,"deadline":`)
	w.Int64(v.Deadline)
	w.RawString(`,"claim_open_time":`)
	if v.ClaimOpenTime == contract.NeverOpens {
		w.RawString("null")
	} else {
		w.Int64(v.ClaimOpenTime)
	}
	w.RawString(`,"created_at":`)
	w.Int64(v.CreatedAt)
	w.RawString(`,"max_vote_cap":`)
	w.String(v.MaxVoteCap.String())
	w.RawString(`,"total_burned":`)
	w.String(v.TotalBurned.String())
	w.RawString(`,"total_deposited":`)
	w.String(v.TotalDeposited.String())
	w.RawString(`,"total_claimed":`)
	w.String(v.TotalClaimed.String())
	w.RawByte('}')
}

func writeAudit(w *jwriter.Writer, a *contract.VaultAudit) {
	w.RawString(`{"vault_id":`)
	w.Uint64(a.VaultID)
	w.RawString(`,"voters":`)
	w.Uint64(a.Voters)
	w.RawString(`,"open_votes":`)
	w.String(a.OpenVotes.String())
	w.RawString(`,"claimed_votes":`)
	w.String(a.ClaimedVotes.String())
	w.RawString(`,"total_burned":`)
	w.String(a.TotalBurned.String())
	w.RawString(`,"paid_out":`)
	w.String(a.PaidOut.String())
	w.RawString(`,"total_claimed":`)
	w.String(a.TotalClaimed.String())
	w.RawString(`,"balanced":`)
	w.Bool(a.Balanced())
	w.RawByte('}')
}

// writeUserVault adds "claimable" when a preview is passed.
func writeUserVault(w *jwriter.Writer, uv *contract.UserVault, claimable *contract.U128) {
	w.RawString(`{"user":`)
	w.String(uv.User.String())
	w.RawString(`,"vault":`)
	w.String(uv.Vault.String())
	w.RawString(`,"burned_amount":`)
	w.String(uv.BurnedAmount.String())
	w.RawString(`,"claimed":`)
	w.String(uv.Claimed.String())
	if claimable != nil {
		w.RawString(`,"claimable":`)
		w.String(claimable.String())
	}
	w.RawByte('}')
}

func writeBalance(w *jwriter.Writer, owner sdk.Address, asset sdk.Asset, bal uint64) {
	w.RawString(`{"owner":`)
	w.String(owner.String())
	w.RawString(`,"asset":`)
	w.String(asset.String())
	w.RawString(`,"balance":`)
	w.Uint64(bal)
	w.RawByte('}')
}

func writeAsset(w *jwriter.Writer, info sdk.AssetInfo) {
	w.RawString(`{"asset":`)
	w.String(info.Asset.String())
	w.RawString(`,"decimals":`)
	w.Uint8(info.Decimals)
	w.RawString(`,"supply":`)
	w.Uint64(info.Supply)
	w.RawString(`,"authority":`)
	w.String(info.Authority.String())
	if info.Label != nil {
		w.RawString(`,"name":`)
		w.String(info.Label.Name)
		w.RawString(`,"symbol":`)
		w.String(info.Label.Symbol)
		w.RawString(`,"uri":`)
		w.String(info.Label.URI)
	}
	w.RawByte('}')
}
