package contract

import "okinoko_vault/sdk"

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

// le64 is the 8 byte seed form of a vault id.
func le64(x uint64) []byte {
	return packU64LE(x, make([]byte, 0, 8))
}

// registryKey is a single byte, there is only one registry.
func registryKey() string {
	return string([]byte{kRegistry})
}

func clockKey() string {
	return string([]byte{kClock})
}

// vaultKey builds a storage key string for a vault by ID.
func vaultKey(id uint64) string {
	var buf [9]byte
	buf[0] = kVault
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// userVaultKey mixes vault id plus address bytes to avoid nested maps in storage.
func userVaultKey(vaultID uint64, user sdk.Address) string {
	addr := user.String()
	buf := make([]byte, 0, 1+8+len(addr))
	buf = append(buf, kUserVault)
	buf = packU64LE(vaultID, buf)
	buf = append(buf, addr...)
	return string(buf)
}

// vaultIndexKey stores the id living in listing slot idx.
func vaultIndexKey(idx uint64) string {
	var buf [9]byte
	buf[0] = kVaultIndex
	packU64LEInline(idx, buf[1:])
	return string(buf[:])
}

// voterCountKey counts distinct voters of a vault.
func voterCountKey(vaultID uint64) string {
	var buf [9]byte
	buf[0] = kVoterCount
	packU64LEInline(vaultID, buf[1:])
	return string(buf[:])
}

// voterIndexKey stores the voter living in slot idx of a vault.
func voterIndexKey(vaultID, idx uint64) string {
	var buf [17]byte
	buf[0] = kVoterIndex
	packU64LEInline(vaultID, buf[1:])
	packU64LEInline(idx, buf[9:])
	return string(buf[:])
}

// -----------------------------------------------------------------------------
// Derived Addresses
// -----------------------------------------------------------------------------

func registryAddress(program string) sdk.Address {
	return sdk.DeriveAddress(program, seedRegistry)
}

func governanceAsset(program string) sdk.Asset {
	return sdk.AssetFromAddress(sdk.DeriveAddress(program, seedGovMint))
}

func stakedAsset(program string) sdk.Asset {
	return sdk.AssetFromAddress(sdk.DeriveAddress(program, seedStakedMint))
}

// VaultAddress is the derived address owning a vault's escrow and vote mint.
// Example payload: VaultAddress("okinoko_vault", 7)
func VaultAddress(program string, id uint64) sdk.Address {
	return sdk.DeriveAddress(program, seedVault, le64(id))
}

func voteAsset(program string, vault sdk.Address) sdk.Asset {
	return sdk.AssetFromAddress(sdk.DeriveAddress(program, seedVoteMint, []byte(vault)))
}

// CreatedAssetID is the id asset_create hands out for (creator, symbol).
func CreatedAssetID(program string, creator sdk.Address, symbol string) sdk.Asset {
	return sdk.AssetFromAddress(sdk.DeriveAddress(program, seedAssetCreated, []byte(creator), []byte(symbol)))
}
