package dto

// UnlimitedDumps is the RemainingDumps sentinel for premium users.
const UnlimitedDumps = -1

// QuotaStatus is the result of a read-only quota check.
type QuotaStatus struct {
	CanDump        bool `json:"can_dump"`
	RemainingDumps int  `json:"remaining_dumps"`
	IsPremium      bool `json:"is_premium"`
}
