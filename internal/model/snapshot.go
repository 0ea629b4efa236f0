package model

// NewSnapshot returns an empty snapshot with counters starting at 1.
func NewSnapshot() Snapshot {
	return Snapshot{
		Vaults:         []Vault{},
		Deposits:       []Deposit{},
		NextDepositID:  1,
		NextVaultIndex: 1,
	}
}

// Clone returns a deep copy. Mutating the copy never affects s.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Vaults != nil {
		out.Vaults = make([]Vault, len(s.Vaults))
		for i, v := range s.Vaults {
			if v.Strategies != nil {
				v.Strategies = append(make([]Strategy, 0, len(v.Strategies)), v.Strategies...)
			}
			out.Vaults[i] = v
		}
	}
	if s.Deposits != nil {
		out.Deposits = append(make([]Deposit, 0, len(s.Deposits)), s.Deposits...)
	}
	return out
}

// VaultIndex returns the position of the vault with the given slug, or -1.
func (s Snapshot) VaultIndex(slug string) int {
	for i := range s.Vaults {
		if s.Vaults[i].Slug == slug {
			return i
		}
	}
	return -1
}

// DepositIndex returns the position of the deposit with the given id, or -1.
func (s Snapshot) DepositIndex(id int64) int {
	for i := range s.Deposits {
		if s.Deposits[i].ID == id {
			return i
		}
	}
	return -1
}

// VaultBySlug looks up a vault by slug.
func (s Snapshot) VaultBySlug(slug string) (Vault, bool) {
	i := s.VaultIndex(slug)
	if i < 0 {
		return Vault{}, false
	}
	return s.Vaults[i], true
}

// DepositByID looks up a deposit by id.
func (s Snapshot) DepositByID(id int64) (Deposit, bool) {
	i := s.DepositIndex(id)
	if i < 0 {
		return Deposit{}, false
	}
	return s.Deposits[i], true
}

// DepositsForVault returns the deposits owned by slug, in snapshot order.
// The result is never nil.
func (s Snapshot) DepositsForVault(slug string) []Deposit {
	out := []Deposit{}
	for _, d := range s.Deposits {
		if d.VaultSlug == slug {
			out = append(out, d)
		}
	}
	return out
}

// LiveTVL sums deposit amounts for slug. CurrentTVL is maintained
// incrementally; this is the from-scratch value it must agree with.
func (s Snapshot) LiveTVL(slug string) float64 {
	var total float64
	for _, d := range s.Deposits {
		if d.VaultSlug == slug {
			total += d.Amount
		}
	}
	return total
}
