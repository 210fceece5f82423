package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAnomalyRules_Evaluate(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	rules := DefaultAnomalyRules()

	completed := func(from, to string, ago time.Duration) *TransferRecord {
		return &TransferRecord{
			FromAccountID: from,
			ToAccountID:   to,
			Amount:        decimal.NewFromInt(1),
			Outcome:       OutcomeCompleted,
			CreatedAt:     now.Add(-ago),
		}
	}
	rejected := func(from string, ago time.Duration) *TransferRecord {
		rec := completed(from, "bob", ago)
		rec.Outcome = OutcomeRejected
		rec.Reason = ReasonSuspiciousLargeTransfer
		return rec
	}

	tests := []struct {
		name    string
		amount  decimal.Decimal
		balance decimal.Decimal
		recent  []*TransferRecord
		expect  Verdict
	}{
		{
			name:    "no history small amount",
			amount:  decimal.NewFromInt(10),
			balance: decimal.NewFromInt(1000),
			expect:  Allow,
		},
		{
			name:    "three completed transfers inside window",
			amount:  decimal.NewFromInt(10),
			balance: decimal.NewFromInt(1000),
			recent: []*TransferRecord{
				completed("alice", "bob", 5*time.Second),
				completed("alice", "bob", 20*time.Second),
				completed("alice", "carol", 59*time.Second),
			},
			expect: Deny(ReasonTooManyRapidTransfers),
		},
		{
			name:    "transfer exactly at window edge counts",
			amount:  decimal.NewFromInt(10),
			balance: decimal.NewFromInt(1000),
			recent: []*TransferRecord{
				completed("alice", "bob", 1*time.Second),
				completed("alice", "bob", 2*time.Second),
				completed("alice", "bob", 60*time.Second),
			},
			expect: Deny(ReasonTooManyRapidTransfers),
		},
		{
			name:    "transfers outside window are ignored",
			amount:  decimal.NewFromInt(10),
			balance: decimal.NewFromInt(1000),
			recent: []*TransferRecord{
				completed("alice", "bob", 5*time.Second),
				completed("alice", "bob", 10*time.Second),
				completed("alice", "bob", 61*time.Second),
			},
			expect: Allow,
		},
		{
			name:    "rejected and incoming transfers are ignored",
			amount:  decimal.NewFromInt(10),
			balance: decimal.NewFromInt(1000),
			recent: []*TransferRecord{
				completed("alice", "bob", 5*time.Second),
				completed("bob", "alice", 6*time.Second),
				rejected("alice", 7*time.Second),
				completed("alice", "bob", 8*time.Second),
			},
			expect: Allow,
		},
		{
			name:    "amount above eighty percent of balance",
			amount:  decimal.NewFromInt(850),
			balance: decimal.NewFromInt(1000),
			expect:  Deny(ReasonSuspiciousLargeTransfer),
		},
		{
			name:    "amount below eighty percent of balance",
			amount:  decimal.NewFromInt(750),
			balance: decimal.NewFromInt(1000),
			expect:  Allow,
		},
		{
			name:    "amount exactly eighty percent of balance",
			amount:  decimal.NewFromInt(800),
			balance: decimal.NewFromInt(1000),
			expect:  Allow,
		},
		{
			name:    "velocity wins over magnitude",
			amount:  decimal.NewFromInt(900),
			balance: decimal.NewFromInt(1000),
			recent: []*TransferRecord{
				completed("alice", "bob", 1*time.Second),
				completed("alice", "bob", 2*time.Second),
				completed("alice", "bob", 3*time.Second),
			},
			expect: Deny(ReasonTooManyRapidTransfers),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Evaluate(now, "alice", tt.amount, tt.balance, tt.recent)
			if got != tt.expect {
				t.Errorf("expected %+v, got %+v", tt.expect, got)
			}
		})
	}
}

func TestAnomalyRules_Disabled(t *testing.T) {
	now := time.Now()
	rules := AnomalyRules{
		VelocityWindow: time.Minute,
		VelocityLimit:  0,
		MagnitudeRatio: decimal.NewFromInt(1),
	}

	recent := []*TransferRecord{
		{FromAccountID: "alice", Outcome: OutcomeCompleted, CreatedAt: now},
		{FromAccountID: "alice", Outcome: OutcomeCompleted, CreatedAt: now},
		{FromAccountID: "alice", Outcome: OutcomeCompleted, CreatedAt: now},
	}

	got := rules.Evaluate(now, "alice", decimal.NewFromInt(100), decimal.NewFromInt(100), recent)
	if !got.Allowed {
		t.Errorf("expected disabled rules to allow, got %+v", got)
	}
	if got.Err() != nil {
		t.Errorf("expected nil error for allowed verdict, got %v", got.Err())
	}
}
