package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default anomaly thresholds.
const (
	DefaultVelocityWindow = 60 * time.Second
	DefaultVelocityLimit  = 3
	DefaultMagnitudeRatio = "0.8"
)

// AnomalyRules holds the thresholds used to screen a transfer before it is committed.
type AnomalyRules struct {
	// VelocityWindow is the trailing window in which completed outgoing transfers are counted.
	VelocityWindow time.Duration
	// VelocityLimit denies a transfer once the sender already has this many completed
	// transfers inside the window. Zero disables the rule.
	VelocityLimit int
	// MagnitudeRatio denies a transfer larger than this fraction of the sender's balance.
	// A ratio of 1 or more never fires.
	MagnitudeRatio decimal.Decimal
}

// DefaultAnomalyRules returns 3 transfers per 60 seconds and an 80% balance threshold.
func DefaultAnomalyRules() AnomalyRules {
	return AnomalyRules{
		VelocityWindow: DefaultVelocityWindow,
		VelocityLimit:  DefaultVelocityLimit,
		MagnitudeRatio: decimal.RequireFromString(DefaultMagnitudeRatio),
	}
}

// Verdict is the detector's decision.
type Verdict struct {
	Allowed bool
	Reason  RejectionReason
}

// Allow is the verdict for a transfer that passed screening.
var Allow = Verdict{Allowed: true}

// Deny returns a denying verdict.
func Deny(reason RejectionReason) Verdict {
	return Verdict{Reason: reason}
}

// Err returns the sentinel for a denying verdict and nil otherwise.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	return v.Reason.Err()
}

// Evaluate screens a proposed transfer. Rules are applied in order and the first match wins.
// senderBalance is the balance before the transfer; recent may contain records of any
// participant and outcome, only the sender's completed outgoing transfers count.
func (r AnomalyRules) Evaluate(
	now time.Time,
	senderID string,
	amount, senderBalance decimal.Decimal,
	recent []*TransferRecord,
) Verdict {
	if r.VelocityLimit > 0 && r.countRecent(now, senderID, recent) >= r.VelocityLimit {
		return Deny(ReasonTooManyRapidTransfers)
	}

	if amount.GreaterThan(senderBalance.Mul(r.MagnitudeRatio)) {
		return Deny(ReasonSuspiciousLargeTransfer)
	}

	return Allow
}

func (r AnomalyRules) countRecent(now time.Time, senderID string, recent []*TransferRecord) int {
	since := now.Add(-r.VelocityWindow)

	count := 0
	for _, rec := range recent {
		if rec.FromAccountID != senderID || !rec.Completed() {
			continue
		}
		if rec.CreatedAt.Before(since) {
			continue
		}
		count++
	}

	return count
}
