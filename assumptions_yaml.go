package loanbook

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// assumptionsEntry mirrors one tier of the YAML override document. Keys
// match the JSONL set-assumptions command; rates are annual decimal
// fractions there too.
type assumptionsEntry struct {
	CPR             float64 `yaml:"cpr"`
	CreditRate      float64 `yaml:"creditRate"`
	PD              float64 `yaml:"pd"`
	LGD             float64 `yaml:"lgd"`
	ServicingRate   float64 `yaml:"servicingRate"`
	ReportingRate   float64 `yaml:"reportingRate"`
	OriginationRate float64 `yaml:"originationRate"`
	RecoveryRate    float64 `yaml:"recoveryRate"`
	RecoveryLag     int     `yaml:"recoveryLag"`
}

func (e assumptionsEntry) assumptions() Assumptions {
	return Assumptions{
		CPR:             e.CPR,
		CreditRate:      e.CreditRate,
		PD:              e.PD,
		LGD:             e.LGD,
		ServicingRate:   e.ServicingRate,
		ReportingRate:   e.ReportingRate,
		OriginationRate: e.OriginationRate,
		RecoveryRate:    e.RecoveryRate,
		RecoveryLag:     e.RecoveryLag,
	}
}

// LoadAssumptions reads a YAML assumption override file: a mapping of
// tier label to annual rates, as decimal fractions.
//
//	default:
//	  cpr: 0.05
//	  creditRate: 0.01
//	  servicingRate: 0.0025
//	prime:
//	  cpr: 0.07
//
// The file does not need a default tier of its own; it is meant to be
// merged over a book's set, which has one.
func LoadAssumptions(path string) (AssumptionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read assumptions file %q: %w", path, err)
	}
	var doc map[string]assumptionsEntry
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse assumptions file %q: %w", path, err)
	}
	set := make(AssumptionSet, len(doc))
	for tier, e := range doc {
		a := e.assumptions()
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("assumptions file %q tier %q: %w", path, tier, err)
		}
		set[tier] = a
	}
	return set, nil
}

// Merge returns a copy of s with o's tiers written over it. Tiers only
// in s survive; tiers in o replace s's entirely.
func (s AssumptionSet) Merge(o AssumptionSet) AssumptionSet {
	merged := make(AssumptionSet, len(s)+len(o))
	for tier, a := range s {
		merged[tier] = a
	}
	for tier, a := range o {
		merged[tier] = a
	}
	return merged
}
