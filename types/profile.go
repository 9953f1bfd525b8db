package types

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// Profile holds the reviewable plausibility bounds used by the business-rule
// validator. Deployments tune these per receiving authority; the compiled-in
// defaults match the ranges the upstream MedWatch feed was checked against.
type Profile struct {
	Name        string  `yaml:"name" json:"name"`
	AgeYearsMin float64 `yaml:"age_years_min" json:"age_years_min"`
	AgeYearsMax float64 `yaml:"age_years_max" json:"age_years_max"`
	WeightKgMin float64 `yaml:"weight_kg_min" json:"weight_kg_min"`
	WeightKgMax float64 `yaml:"weight_kg_max" json:"weight_kg_max"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:        "default",
		AgeYearsMin: 0,
		AgeYearsMax: 120,
		WeightKgMin: 0,
		WeightKgMax: 650,
	}
}

func (p Profile) Validate() error {
	if p.AgeYearsMax <= p.AgeYearsMin {
		return fmt.Errorf("profile %q: age range [%v, %v] is empty", p.Name, p.AgeYearsMin, p.AgeYearsMax)
	}
	if p.WeightKgMax <= p.WeightKgMin {
		return fmt.Errorf("profile %q: weight range [%v, %v] is empty", p.Name, p.WeightKgMin, p.WeightKgMax)
	}
	return nil
}

// LoadProfile reads a yaml profile, starting from the defaults so a file may
// override only the bounds it cares about.
func LoadProfile(filePath string) (Profile, error) {
	profile := DefaultProfile()
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return profile, err
	}
	if err := yaml.Unmarshal(buf, &profile); err != nil {
		return profile, err
	}
	if err := profile.Validate(); err != nil {
		return profile, err
	}
	return profile, nil
}
