package contract

import (
	"fmt"
	"strconv"

	"okinoko_vault/sdk"
)

// emitInitEvent marks the deployment start with both asset ids so indexers can follow them.
func emitInitEvent(c *callContext, reg *GlobalRegistry) {
	c.log(fmt.Sprintf(
		"ini|admin:%s|gov:%s|st:%s|pm:%s",
		reg.Admin,
		reg.GovernanceAsset,
		reg.StakedAsset,
		reg.PayoutMode,
	))
}

// emitConverted is the 1:1 swap ping, burn and mint amounts are always equal.
func emitConverted(c *callContext, by sdk.Address, amount uint64) {
	c.log(fmt.Sprintf(
		"cv|by:%s|am:%d",
		by,
		amount,
	))
}

// emitVaultCreated carries cap and deadline so the campaign can be shown without a read.
func emitVaultCreated(c *callContext, v *Vault) {
	c.log(fmt.Sprintf(
		"vc|id:%d|by:%s|cap:%s|dl:%s|vt:%s",
		v.ID,
		v.Owner,
		v.MaxVoteCap,
		strconv.FormatInt(v.Deadline, 10),
		v.VoteAsset,
	))
}

// emitVoteCasted includes the running total so cap headroom can be replayed from logs only.
func emitVoteCasted(c *callContext, vaultID uint64, voter sdk.Address, amount uint64, total U128) {
	c.log(fmt.Sprintf(
		"v|id:%d|by:%s|am:%d|tot:%s",
		vaultID,
		voter,
		amount,
		total,
	))
}

// emitProjectSet logs every (re)configuration, old values included for auditors.
func emitProjectSet(c *callContext, v *Vault, oldAsset sdk.Asset, oldOpen int64) {
	c.log(fmt.Sprintf(
		"ps|id:%d|as:%s|open:%s|old_as:%s|old_open:%s",
		v.ID,
		v.ProjectAsset,
		strconv.FormatInt(v.ClaimOpenTime, 10),
		oldAsset,
		strconv.FormatInt(oldOpen, 10),
	))
}

// emitDeposited tells watchers how much sits in escrow now.
func emitDeposited(c *callContext, vaultID uint64, by sdk.Address, amount uint64, total U128) {
	c.log(fmt.Sprintf(
		"dp|id:%d|by:%s|am:%d|tot:%s",
		vaultID,
		by,
		amount,
		total,
	))
}

// emitClaimed logs payout and burned vote units, a repeat claim shows up as am:0|burn:0.
func emitClaimed(c *callContext, vaultID uint64, to sdk.Address, amount, burned uint64) {
	c.log(fmt.Sprintf(
		"cl|id:%d|to:%s|am:%d|burn:%d",
		vaultID,
		to,
		amount,
		burned,
	))
}

// emitAssetCreated and emitAssetMinted cover the ledger passthrough actions.
func emitAssetCreated(c *callContext, asset sdk.Asset, by sdk.Address, symbol string) {
	c.log(fmt.Sprintf(
		"ac|as:%s|by:%s|sym:%s",
		asset,
		by,
		symbol,
	))
}

func emitAssetMinted(c *callContext, asset sdk.Asset, to sdk.Address, amount uint64) {
	c.log(fmt.Sprintf(
		"am|as:%s|to:%s|am:%d",
		asset,
		to,
		amount,
	))
}
