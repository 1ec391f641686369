package validate

import (
	"context"
	"fmt"
	"sort"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// RuleValidator checks parsed resources against per-type structural
// rules and terminology bindings. It covers the base-profile checks of
// the R4B resources this gate routinely sees; unknown types get a
// best-effort pass with a warning so the classifier decides the rest.
type RuleValidator struct {
	required map[string][]string
	bindings map[string]binding
}

type binding struct {
	valueSet string
	codes    map[string]struct{}
}

// NewRuleValidator creates a validator with the built-in rule tables.
func NewRuleValidator() *RuleValidator {
	return &RuleValidator{
		required: map[string][]string{
			"Observation":     {"status", "code"},
			"MedicationOrder": {"medication"},
			"Condition":       {"subject"},
			"Encounter":       {"status", "class"},
		},
		bindings: map[string]binding{
			"Patient.gender": {
				valueSet: "http://hl7.org/fhir/ValueSet/administrative-gender",
				codes:    codeSet("male", "female", "other", "unknown"),
			},
			"Observation.status": {
				valueSet: "http://hl7.org/fhir/ValueSet/observation-status",
				codes: codeSet(
					"registered", "preliminary", "final", "amended",
					"corrected", "cancelled", "entered-in-error", "unknown",
				),
			},
			"Encounter.status": {
				valueSet: "http://hl7.org/fhir/ValueSet/encounter-status",
				codes: codeSet(
					"planned", "arrived", "triaged", "in-progress",
					"onleave", "finished", "cancelled", "entered-in-error", "unknown",
				),
			},
		},
	}
}

func codeSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Validate runs the rule tables over one resource. Emission order is
// stable: required elements first, then bindings, then best-practice
// findings, each in field order.
func (v *RuleValidator) Validate(ctx context.Context, resource *domain.Resource) ([]domain.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resource == nil || resource.Type == "" {
		return nil, fmt.Errorf("resource has no type discriminator")
	}

	var issues []domain.Issue

	required, known := v.required[resource.Type]
	for _, field := range required {
		if isMissing(resource.Fields[field]) {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Location: fmt.Sprintf("%s.%s", resource.Type, field),
				Message:  "minimum required = 1, but only found 0",
			})
		}
	}

	for _, field := range boundFields(v.bindings, resource.Type) {
		b := v.bindings[resource.Type+"."+field]
		raw, present := resource.Fields[field]
		if !present {
			continue
		}
		code, ok := raw.(string)
		if !ok {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Location: fmt.Sprintf("%s.%s", resource.Type, field),
				Message:  "value must be a code (string)",
			})
			continue
		}
		if _, member := b.codes[code]; !member {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Location: fmt.Sprintf("%s.%s", resource.Type, field),
				Message:  fmt.Sprintf("the value %q is not in the value set %s", code, b.valueSet),
			})
		}
	}

	if !known && !hasBinding(v.bindings, resource.Type) {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Location: resource.Type,
			Message:  fmt.Sprintf("no profile rules for resource type %q, structural parse only", resource.Type),
		})
	}

	if isMissing(resource.Fields["text"]) {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityInformation,
			Location: fmt.Sprintf("%s.text", resource.Type),
			Message:  "resource has no narrative",
		})
	}

	return issues, nil
}

func isMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

// boundFields returns the bound field names for a type in stable order.
func boundFields(bindings map[string]binding, resourceType string) []string {
	prefix := resourceType + "."
	var fields []string
	for key := range bindings {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			fields = append(fields, key[len(prefix):])
		}
	}
	sort.Strings(fields)
	return fields
}

func hasBinding(bindings map[string]binding, resourceType string) bool {
	prefix := resourceType + "."
	for key := range bindings {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
