package compose

import (
	"errors"
	"fmt"
)

// Validation errors for topology cross-references.
var (
	// ErrInvalidRestart indicates a restart policy outside RestartPolicies.
	ErrInvalidRestart = errors.New("invalid restart policy")

	// ErrUnknownNetwork indicates a service joins an undeclared network.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrUnknownDependency indicates depends_on names an undeclared service.
	ErrUnknownDependency = errors.New("unknown dependency")
)

// RestartPolicies lists the accepted restart values.
var RestartPolicies = []string{"no", "always", "on-failure", "unless-stopped"}

// ValidationError is a single cross-reference violation.
type ValidationError struct {
	// Service is the referencing service.
	Service string

	// Ref is the offending value: the restart policy, network or dependency.
	Ref string

	// Err is one of the validation sentinel errors.
	Err error
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidRestart):
		return fmt.Sprintf("invalid restart value %q for service %q (supported: %v)", e.Ref, e.Service, RestartPolicies)
	case errors.Is(e.Err, ErrUnknownNetwork):
		return fmt.Sprintf("referenced network %q not found for service %q", e.Ref, e.Service)
	case errors.Is(e.Err, ErrUnknownDependency):
		return fmt.Sprintf("referenced service %q in depends_on not found for service %q", e.Ref, e.Service)
	}
	return fmt.Sprintf("%v: %s (service %q)", e.Err, e.Ref, e.Service)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Report is the outcome of Validate. Violations fail validation; warnings
// are advisory.
type Report struct {
	Violations []*ValidationError
	Warnings   []string
}

// OK reports whether there were no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// First returns the first violation, or nil.
func (r *Report) First() *ValidationError {
	if len(r.Violations) == 0 {
		return nil
	}
	return r.Violations[0]
}

// Err returns the first violation as an error, or nil when valid.
func (r *Report) Err() error {
	if first := r.First(); first != nil {
		return first
	}
	return nil
}

// Validate checks every service's restart policy, network references and
// dependencies. Services are visited in name order and every violation is
// collected. Validate never modifies t.
func Validate(t *Topology) *Report {
	report := &Report{}

	networks := make(map[string]bool, len(t.Networks))
	for name := range t.Networks {
		networks[name] = true
	}

	for _, name := range t.ServiceNames() {
		svc := t.Services[name]

		if svc.Restart != "" && !isRestartPolicy(svc.Restart) {
			report.add(name, svc.Restart, ErrInvalidRestart)
		}

		for _, network := range svc.Networks.Names() {
			if !networks[network] {
				report.add(name, network, ErrUnknownNetwork)
			}
		}

		for _, dep := range svc.DependsOn.Names() {
			if _, ok := t.Services[dep]; !ok {
				report.add(name, dep, ErrUnknownDependency)
			}
		}
	}

	report.Warnings = append(report.Warnings, checkDependencyCycles(t)...)
	report.Warnings = append(report.Warnings, checkPortConflicts(t)...)
	report.Warnings = append(report.Warnings, checkNamedVolumes(t)...)

	return report
}

func (r *Report) add(service, ref string, err error) {
	r.Violations = append(r.Violations, &ValidationError{Service: service, Ref: ref, Err: err})
}

func isRestartPolicy(policy string) bool {
	for _, p := range RestartPolicies {
		if policy == p {
			return true
		}
	}
	return false
}
