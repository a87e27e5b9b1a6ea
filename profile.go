package edi834

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var guideProfiles embed.FS

const defaultProfilePath = "profiles/nyhcs.yaml"

var (
	ErrInvalidProfile = errors.New("invalid guide profile")

	defaultProfile *Profile
)

// Profile holds the trading-partner-specific knobs of an implementation
// guide: the sender ID prefix, the expected transaction set code and
// version, the required segment list, and the allowed LS/LE loop
// identifiers. Everything else in the schema table is fixed by the 834
// segment layouts.
type Profile struct {
	// Name identifies the profile in logs and reports
	Name string `yaml:"name,omitempty"`
	// SenderIdPrefix is the required prefix of ISA06 and GS02
	SenderIdPrefix string `yaml:"senderIdPrefix"`
	// TransactionSetCode is the expected value of ST01
	TransactionSetCode string `yaml:"transactionSetCode"`
	// VersionCode is the expected value of ST03
	VersionCode string `yaml:"versionCode"`
	// RequiredSegments is the set of segment codes which must appear in
	// every document. Presence errors are reported in this order.
	RequiredSegments []string `yaml:"requiredSegments"`
	// LoopIdentifierCodes are the allowed LS01/LE01 values
	LoopIdentifierCodes []string `yaml:"loopIdentifierCodes"`
}

// Validate checks that the profile is complete enough to build a schema
// table from
func (p *Profile) Validate() error {
	var errs []error
	if p.SenderIdPrefix == "" {
		errs = append(errs, fmt.Errorf(
			"%w: senderIdPrefix is required", ErrInvalidProfile,
		))
	}
	if p.TransactionSetCode == "" {
		errs = append(errs, fmt.Errorf(
			"%w: transactionSetCode is required", ErrInvalidProfile,
		))
	}
	if p.VersionCode == "" {
		errs = append(errs, fmt.Errorf(
			"%w: versionCode is required", ErrInvalidProfile,
		))
	}
	if len(p.RequiredSegments) == 0 {
		errs = append(errs, fmt.Errorf(
			"%w: requiredSegments must not be empty", ErrInvalidProfile,
		))
	}
	seen := map[string]bool{}
	for _, code := range p.RequiredSegments {
		if code == "" {
			errs = append(errs, fmt.Errorf(
				"%w: requiredSegments contains an empty code",
				ErrInvalidProfile,
			))
			continue
		}
		if seen[code] {
			errs = append(errs, fmt.Errorf(
				"%w: duplicate required segment %s", ErrInvalidProfile, code,
			))
		}
		seen[code] = true
	}
	if len(p.LoopIdentifierCodes) == 0 {
		errs = append(errs, fmt.Errorf(
			"%w: loopIdentifierCodes must not be empty", ErrInvalidProfile,
		))
	}
	return errors.Join(errs...)
}

// SegmentSpecs builds the schema table for this profile. The result is
// independent of any other table - callers may validate concurrently as
// long as each DocumentValidator gets its own instance.
func (p *Profile) SegmentSpecs() (map[string]*SegmentSpec, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	table := buildSegmentSpecs(p)
	if err := validateSegmentSpecs(table); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseProfile unmarshals a YAML guide profile and validates it
func ParseProfile(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProfile reads a YAML guide profile from the given path
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// DefaultProfile returns the embedded NY HCS profile
func DefaultProfile() *Profile {
	return defaultProfile
}

func init() {
	data, err := guideProfiles.ReadFile(defaultProfilePath)
	if err != nil {
		panic(fmt.Sprintf(
			"unable to read embedded profile %s: %s",
			defaultProfilePath,
			err.Error(),
		))
	}
	p, err := ParseProfile(data)
	if err != nil {
		panic(fmt.Sprintf(
			"unable to validate embedded profile %s: %s",
			defaultProfilePath,
			err.Error(),
		))
	}
	if p.Name == "" {
		p.Name = "nyhcs"
	}
	defaultProfile = p

	specs, err := p.SegmentSpecs()
	if err != nil {
		panic(fmt.Sprintf(
			"unable to validate default segment specs: %s", err.Error(),
		))
	}
	defaultSegmentSpecs = specs
}
