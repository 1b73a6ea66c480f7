// Package health aggregates server-side checks into one report.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all checks passed.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the server is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Report aggregates check results.
type Report struct {
	Status       Status
	Checks       map[string]CheckResult
	Heartbeat    int64
	MaxBatchSize int
}

// Service coordinates server health checks.
type Service struct {
	pinger Pinger
	limits LimitsReader
}

// New creates a health service. limits can be nil for servers without
// pre-flight support.
func New(pinger Pinger, limits LimitsReader) *Service {
	return &Service{pinger: pinger, limits: limits}
}

// Check runs all checks. An unreachable server short-circuits to Unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Checks: checks}

	ns, err := s.pinger.Heartbeat(ctx)
	if err != nil {
		checks["heartbeat"] = CheckError
		report.Status = Unhealthy
		return report
	}
	checks["heartbeat"] = CheckOK
	report.Heartbeat = ns

	if s.limits != nil {
		limits, err := s.limits.PreFlight(ctx)
		if err != nil {
			checks["pre-flight"] = CheckError
		} else {
			checks["pre-flight"] = CheckOK
			report.MaxBatchSize = limits.MaxBatchSize
		}
	}

	report.Status = Healthy
	for _, v := range checks {
		if v == CheckError {
			report.Status = Degraded
			break
		}
	}
	return report
}
