package services

import (
	"math"
	"strconv"
	"strings"
)

// DuesPerMember is what every paid member adds to the computed vault.
const DuesPerMember = 250

// ComputeDisplayedVault returns override when it is set and otherwise the
// number of paid members times DuesPerMember.
func ComputeDisplayedVault(paid map[string]bool, override *float64) float64 {
	if override != nil {
		return *override
	}
	count := 0
	for _, v := range paid {
		if v {
			count++
		}
	}
	return float64(count * DuesPerMember)
}

// ParseVaultAmount reads an override typed by a user.
func ParseVaultAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, validationf("invalid number %q", s)
	}
	return v, nil
}

// paidFlags keeps the entries that are exactly true or false.
func paidFlags(v any) map[string]bool {
	raw, _ := v.(map[string]any)
	out := make(map[string]bool, len(raw))
	for name, flag := range raw {
		if b, ok := flag.(bool); ok {
			out[name] = b
		}
	}
	return out
}

// overrideOf returns the numeric override or nil when absent or not a number.
func overrideOf(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
