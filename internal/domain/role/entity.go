package role

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"skill-bridge/internal/domain/skill"
)

var (
	ErrInvalidPayRange = errors.New("invalid pay range")
	ErrInvalidDemand   = errors.New("invalid demand level")
)

type Demand string

const (
	DemandLow      Demand = "low"
	DemandMedium   Demand = "medium"
	DemandHigh     Demand = "high"
	DemandVeryHigh Demand = "very_high"
)

type Role struct {
	ID             string
	Name           string
	Description    string
	Icon           string
	RequiredSkills []string
	SoftSkills     []string
	PayRange       string
	Demand         Demand
}

// Required returns hard then soft required skill ids without repeats.
func (r Role) Required() []string {
	return skill.Unique(r.Listed())
}

// Listed returns hard then soft skill ids exactly as the catalog lists them,
// repeats included. Profile vectors pool over this list.
func (r Role) Listed() []string {
	all := make([]string, 0, len(r.RequiredSkills)+len(r.SoftSkills))
	all = append(all, r.RequiredSkills...)
	all = append(all, r.SoftSkills...)
	return all
}

func (r Role) Pay() (PayRange, error) {
	return ParsePayRange(r.PayRange)
}

type PayRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

var payNumberRe = regexp.MustCompile(`\d[\d,]*`)

// ParsePayRange reads "$<low> - $<high>" with optional thousands separators.
// Exactly two integers must be present.
func ParsePayRange(s string) (PayRange, error) {
	nums := payNumberRe.FindAllString(s, -1)
	if len(nums) != 2 {
		return PayRange{}, fmt.Errorf("%w: %q", ErrInvalidPayRange, s)
	}

	vals := make([]int, 0, 2)
	for _, n := range nums {
		v, err := strconv.Atoi(strings.ReplaceAll(n, ",", ""))
		if err != nil {
			return PayRange{}, fmt.Errorf("%w: %q", ErrInvalidPayRange, s)
		}
		vals = append(vals, v)
	}
	if vals[0] > vals[1] {
		return PayRange{}, fmt.Errorf("%w: low above high in %q", ErrInvalidPayRange, s)
	}
	return PayRange{Low: vals[0], High: vals[1]}, nil
}

func ParseDemand(s string) (Demand, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch Demand(n) {
	case DemandLow, DemandMedium, DemandHigh, DemandVeryHigh:
		return Demand(n), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDemand, s)
	}
}
