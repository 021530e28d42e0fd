package domain

// SecurityProfile holds the security metadata of a token.
// Nil pointer fields were absent from the upstream response.
type SecurityProfile struct {
	OwnerAddress       *string  // nil means the authority was renounced
	CreatorAddress     *string  // deployer wallet, when reported
	CreationTime       *int64   // unix seconds
	Top10HolderBalance *float64 // human-scale token amount
	Top10HolderPercent *float64 // fraction in [0,1]
	TotalSupply        *float64
	TransferFee        string // tax percentage descriptor, "0" when absent
}

// Renounced reports whether the owner authority is absent.
func (p *SecurityProfile) Renounced() bool {
	return p.OwnerAddress == nil || *p.OwnerAddress == ""
}
