package sdk

// Asset identifies a mint on the ledger. Ids are derived addresses so two
// deployments never hand out the same one.
type Asset string

// String returns the raw asset id for logging or ledger calls.
// Example payload: sdk.Asset("pda:7Hk...").String()
func (a Asset) String() string {
	return string(a)
}

// IsZero reports an unset asset (project asset before configuration).
func (a Asset) IsZero() bool {
	return a == ""
}

// AssetFromAddress turns a derived mint address into an asset id.
func AssetFromAddress(a Address) Asset {
	return Asset(a)
}
