package policy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxMessageBytes applies when a policy leaves limits.max_message_bytes unset.
const DefaultMaxMessageBytes int64 = 64 << 10

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// Default returns the built-in policy.
func Default() (*Policy, error) {
	return Parse(defaultPolicyYAML)
}

// DefaultYAML returns the raw built-in policy document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultPolicyYAML))
	copy(out, defaultPolicyYAML)
	return out
}

// LoadFromFile loads a policy from a YAML file.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}
	return Parse(data)
}

// Load reads the policy at path, or the built-in policy when path is empty.
func Load(path string) (*Policy, error) {
	if path == "" {
		return Default()
	}
	return LoadFromFile(path)
}

// Parse parses YAML bytes into a Policy.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing policy YAML: %w", err)
	}
	if err := validate(&p); err != nil {
		return nil, fmt.Errorf("validating policy: %w", err)
	}
	return &p, nil
}

// validate checks policy integrity and fills defaults.
func validate(p *Policy) error {
	if p.Version == "" {
		return fmt.Errorf("policy version is required")
	}
	if p.PolicyName == "" {
		return fmt.Errorf("policy_name is required")
	}
	if p.DefaultVerdict == "" {
		p.DefaultVerdict = VerdictSafe
	}
	if p.DefaultVerdict.Severity() < 0 {
		return fmt.Errorf("invalid default_verdict %q", p.DefaultVerdict)
	}
	if p.Limits.MaxMessageBytes < 0 {
		return fmt.Errorf("limits.max_message_bytes must not be negative")
	}
	if p.Limits.MaxMessageBytes == 0 {
		p.Limits.MaxMessageBytes = DefaultMaxMessageBytes
	}

	for i, rule := range p.Rules {
		if rule.Name == "" {
			return fmt.Errorf("rule %d: name is required", i)
		}
		if rule.Verdict.Severity() < 0 {
			return fmt.Errorf("rule %q: invalid verdict %q", rule.Name, rule.Verdict)
		}
		if len(rule.Conditions) == 0 {
			return fmt.Errorf("rule %q: at least one condition is required", rule.Name)
		}
		for _, cond := range rule.Conditions {
			if !knownField(cond.Field) {
				return fmt.Errorf("rule %q: unknown field %q", rule.Name, cond.Field)
			}
		}
	}

	return nil
}

// BuildTable creates the verdict table from the policy.
func BuildTable(p *Policy) *VerdictTable {
	return NewVerdictTable(p.Rules, p.DefaultVerdict)
}
