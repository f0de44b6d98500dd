package contract

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// decodeInitArgs expects `govName|govSymbol|govURI|stName|stSymbol|stURI`.
func decodeInitArgs(payload string) (*InitArgs, error) {
	parts, err := splitPayload(payload, 6, 6, "init payload requires govName|govSymbol|govURI|stName|stSymbol|stURI")
	if err != nil {
		return nil, err
	}
	return &InitArgs{
		Governance: labelFrom(parts[0], parts[1], parts[2]),
		Staked:     labelFrom(parts[3], parts[4], parts[5]),
	}, nil
}

// decodeConvertArgs expects a bare amount.
func decodeConvertArgs(payload string) (*ConvertArgs, error) {
	parts, err := splitPayload(payload, 1, 1, "convert payload requires amount")
	if err != nil {
		return nil, err
	}
	amount, err := parseUintField(parts[0], "amount")
	if err != nil {
		return nil, err
	}
	return &ConvertArgs{Amount: amount}, nil
}

// decodeCreateVaultArgs expects `vaultId|maxVoteCap|deadline|name|symbol|uri`.
// maxVoteCap is a 128-bit decimal, deadline unix seconds or RFC3339.
func decodeCreateVaultArgs(payload string) (*CreateVaultArgs, error) {
	parts, err := splitPayload(payload, 6, 6, "vault payload requires vaultId|maxVoteCap|deadline|name|symbol|uri")
	if err != nil {
		return nil, err
	}
	id, err := parseUintField(parts[0], "vault id")
	if err != nil {
		return nil, err
	}
	maxCap, err := ParseU128(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, "max vote cap: "+err.Error())
	}
	deadline, err := parseTimeField(parts[2], "deadline")
	if err != nil {
		return nil, err
	}
	return &CreateVaultArgs{
		VaultID:    id,
		MaxVoteCap: maxCap,
		Deadline:   deadline,
		Label:      labelFrom(parts[3], parts[4], parts[5]),
	}, nil
}

// decodeVoteArgs expects `vaultId|amount`.
func decodeVoteArgs(payload string) (*VoteArgs, error) {
	parts, err := splitPayload(payload, 2, 2, "vote payload requires vaultId|amount")
	if err != nil {
		return nil, err
	}
	id, err := parseUintField(parts[0], "vault id")
	if err != nil {
		return nil, err
	}
	amount, err := parseUintField(parts[1], "amount")
	if err != nil {
		return nil, err
	}
	return &VoteArgs{VaultID: id, Amount: amount}, nil
}

// decodeProjectSetArgs expects `vaultId|projectAsset|claimOpenTime`.
func decodeProjectSetArgs(payload string) (*ProjectSetArgs, error) {
	parts, err := splitPayload(payload, 3, 3, "project payload requires vaultId|projectAsset|claimOpenTime")
	if err != nil {
		return nil, err
	}
	id, err := parseUintField(parts[0], "vault id")
	if err != nil {
		return nil, err
	}
	open, err := parseTimeField(parts[2], "claim open time")
	if err != nil {
		return nil, err
	}
	return &ProjectSetArgs{
		VaultID:       id,
		ProjectAsset:  sdk.Asset(strings.TrimSpace(parts[1])),
		ClaimOpenTime: open,
	}, nil
}

// decodeDepositArgs expects `vaultId|amount`.
func decodeDepositArgs(payload string) (*DepositArgs, error) {
	parts, err := splitPayload(payload, 2, 2, "deposit payload requires vaultId|amount")
	if err != nil {
		return nil, err
	}
	id, err := parseUintField(parts[0], "vault id")
	if err != nil {
		return nil, err
	}
	amount, err := parseUintField(parts[1], "amount")
	if err != nil {
		return nil, err
	}
	return &DepositArgs{VaultID: id, Amount: amount}, nil
}

// decodeClaimArgs expects a bare vault id.
func decodeClaimArgs(payload string) (*ClaimArgs, error) {
	parts, err := splitPayload(payload, 1, 1, "claim payload requires vaultId")
	if err != nil {
		return nil, err
	}
	id, err := parseUintField(parts[0], "vault id")
	if err != nil {
		return nil, err
	}
	return &ClaimArgs{VaultID: id}, nil
}

// decodeAssetCreateArgs expects `name|symbol|uri|decimals`, decimals default to 6.
func decodeAssetCreateArgs(payload string) (*AssetCreateArgs, error) {
	parts, err := splitPayload(payload, 3, 4, "asset payload requires name|symbol|uri[|decimals]")
	if err != nil {
		return nil, err
	}
	decimals := TokenDecimals
	if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
		d, err := strconv.ParseUint(strings.TrimSpace(parts[3]), 10, 8)
		if err != nil || d > 18 {
			return nil, errors.Wrap(ErrInvalidPayload, "decimals must be 0-18")
		}
		decimals = uint8(d)
	}
	return &AssetCreateArgs{Label: labelFrom(parts[0], parts[1], parts[2]), Decimals: decimals}, nil
}

// decodeAssetMintArgs expects `asset|to|amount`.
func decodeAssetMintArgs(payload string) (*AssetMintArgs, error) {
	parts, err := splitPayload(payload, 3, 3, "mint payload requires asset|to|amount")
	if err != nil {
		return nil, err
	}
	to := sdk.Address(strings.TrimSpace(parts[1]))
	// program-owned accounts only change through vault operations
	if !to.IsValid() || to.Domain() == sdk.AddressDomainDerived {
		return nil, errors.Wrapf(ErrInvalidPayload, "invalid recipient %q", to)
	}
	amount, err := parseUintField(parts[2], "amount")
	if err != nil {
		return nil, err
	}
	return &AssetMintArgs{Asset: sdk.Asset(strings.TrimSpace(parts[0])), To: to, Amount: amount}, nil
}

// -----------------------------------------------------------------------------
// Field Helpers
// -----------------------------------------------------------------------------

// unwrapPayload trims quotes and whitespace, clients sometimes send the payload JSON encoded.
func unwrapPayload(payload string) string {
	raw := strings.TrimSpace(payload)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		if unq, err := strconv.Unquote(raw); err == nil {
			raw = strings.TrimSpace(unq)
		}
	}
	return raw
}

// splitPayload unwraps and splits on '|' and insists on least to most fields.
func splitPayload(payload string, least, most int, usage string) ([]string, error) {
	raw := unwrapPayload(payload)
	if raw == "" {
		return nil, errors.Wrap(ErrInvalidPayload, usage)
	}
	parts := strings.Split(raw, "|")
	if len(parts) < least || len(parts) > most {
		return nil, errors.Wrap(ErrInvalidPayload, usage)
	}
	return parts, nil
}

func parseUintField(s, name string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPayload, "invalid %s %q", name, s)
	}
	return v, nil
}

// parseTimeField accepts whatever sdk.ParseTimestamp accepts.
func parseTimeField(s, name string) (int64, error) {
	v, ok := sdk.ParseTimestamp(strings.TrimSpace(s))
	if !ok {
		return 0, errors.Wrapf(ErrInvalidPayload, "invalid %s %q", name, s)
	}
	return v, nil
}

func labelFrom(name, symbol, uri string) sdk.TokenMetadata {
	return sdk.TokenMetadata{
		Name:   strings.TrimSpace(name),
		Symbol: strings.TrimSpace(symbol),
		URI:    strings.TrimSpace(uri),
	}
}
