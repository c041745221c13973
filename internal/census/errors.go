package census

import (
	"fmt"
	"strings"
)

// UnknownCodesError reports spatial codes that are neither in the reference
// set nor the undefined sentinel. The run must abort.
type UnknownCodesError struct {
	Level string   // "commune" or "iris"
	Codes []string // sorted
}

func (e *UnknownCodesError) Error() string {
	return fmt.Sprintf("census: found %d additional %s codes: %s", len(e.Codes), e.Level, strings.Join(e.Codes, ", "))
}

// ContractError reports a consumption-unit result that is not exactly one row
// per household of the roster.
type ContractError struct {
	Duplicates []int64 // returned more than once
	Missing    []int64 // in the roster, not returned
	Extra      []int64 // returned, not in the roster
}

func (e *ContractError) Error() string {
	var parts []string
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate", len(e.Duplicates)))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", len(e.Missing)))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown", len(e.Extra)))
	}
	return "census: consumption units violate one row per household: " + strings.Join(parts, ", ") + " household ids"
}

func (e *ContractError) empty() bool {
	return len(e.Duplicates) == 0 && len(e.Missing) == 0 && len(e.Extra) == 0
}
