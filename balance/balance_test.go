package balance

import (
	"math"
	"testing"

	"melbgo/trip"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency trip.Currency
		rate     float64
		want     float64
	}{
		{name: "AUD passes through", amount: 100, currency: trip.AUD, rate: 21.5, want: 100},
		{name: "TWD divides by rate", amount: 215, currency: trip.TWD, rate: 21.5, want: 10},
		{name: "Zero rate falls back to default", amount: 21.5, currency: trip.TWD, rate: 0, want: 1},
		{name: "Negative rate falls back to default", amount: 43, currency: trip.TWD, rate: -3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.amount, tt.currency, tt.rate)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBalances_EqualSplit(t *testing.T) {
	expenses := []trip.Expense{
		{ID: "1", Title: "dinner", Amount: 100, Currency: trip.AUD, Payer: "我", Involved: []string{"我", "旅伴"}},
	}

	balances := Balances(expenses, DefaultRate)

	if math.Abs(balances["我"]-50) > epsilon {
		t.Errorf("payer position = %v, want +50", balances["我"])
	}
	if math.Abs(balances["旅伴"]+50) > epsilon {
		t.Errorf("other position = %v, want -50", balances["旅伴"])
	}
}

func TestBalances_MixedCurrenciesSumToZero(t *testing.T) {
	expenses := []trip.Expense{
		{ID: "1", Amount: 100, Currency: trip.AUD, Payer: "我", Involved: []string{"我", "旅伴"}},
		{ID: "2", Amount: 430, Currency: trip.TWD, Payer: "旅伴", Involved: []string{"我", "旅伴"}},
		{ID: "3", Amount: 60, Currency: trip.AUD, Payer: "旅伴", Involved: []string{"旅伴"}},
		{ID: "4", Amount: 21.5, Currency: trip.TWD, Payer: "我", Involved: []string{"旅伴"}},
	}

	balances := Balances(expenses, 21.5)

	var total float64
	for _, amount := range balances {
		total += amount
	}
	if math.Abs(total) > 1e-6 {
		t.Errorf("positions must sum to zero, got %v", total)
	}

	// Expense 3 is self-paid and must not shift the ledger.
	selfOnly := Balances([]trip.Expense{expenses[2]}, 21.5)
	if math.Abs(selfOnly["旅伴"]) > epsilon {
		t.Errorf("self-paid expense must be neutral, got %v", selfOnly["旅伴"])
	}
}

func TestBalances_SkipsEmptyInvolved(t *testing.T) {
	expenses := []trip.Expense{
		{ID: "1", Amount: 100, Currency: trip.AUD, Payer: "我", Involved: nil},
	}

	balances := Balances(expenses, DefaultRate)
	if math.Abs(balances["我"]) > epsilon {
		t.Errorf("expense without involved users must be ignored, got %v", balances["我"])
	}
}

func TestTwoUserSettlement(t *testing.T) {
	expenses := []trip.Expense{
		{ID: "1", Amount: 100, Currency: trip.AUD, Payer: "我", Involved: []string{"我", "旅伴"}},
	}
	balances := Balances(expenses, 21.5)

	s := TwoUserSettlement(balances, 21.5)
	if s == nil {
		t.Fatal("expected a settlement, got nil")
	}
	if s.From != "旅伴" || s.To != "我" {
		t.Errorf("settlement direction wrong: %s -> %s", s.From, s.To)
	}
	if math.Abs(s.AmountAUD-50) > epsilon {
		t.Errorf("settlement amount = %v, want 50", s.AmountAUD)
	}
	if math.Abs(s.AmountTWD-1075) > epsilon {
		t.Errorf("TWD approximation = %v, want 1075", s.AmountTWD)
	}
	if got, want := s.String(), "旅伴 owes 我 $50.00 AUD (≈ NT$1075)"; got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestTwoUserSettlement_ReversedDirection(t *testing.T) {
	expenses := []trip.Expense{
		{ID: "1", Amount: 80, Currency: trip.AUD, Payer: "旅伴", Involved: []string{"我", "旅伴"}},
	}
	balances := Balances(expenses, 21.5)

	s := TwoUserSettlement(balances, 21.5)
	if s == nil {
		t.Fatal("expected a settlement, got nil")
	}
	if s.From != "我" || s.To != "旅伴" {
		t.Errorf("settlement direction wrong: %s -> %s", s.From, s.To)
	}
	if math.Abs(s.AmountAUD-40) > epsilon {
		t.Errorf("settlement amount = %v, want 40", s.AmountAUD)
	}
}

func TestTwoUserSettlement_EvenLedger(t *testing.T) {
	expenses := []trip.Expense{
		{ID: "1", Amount: 50, Currency: trip.AUD, Payer: "我", Involved: []string{"我", "旅伴"}},
		{ID: "2", Amount: 50, Currency: trip.AUD, Payer: "旅伴", Involved: []string{"我", "旅伴"}},
	}
	balances := Balances(expenses, 21.5)

	if s := TwoUserSettlement(balances, 21.5); s != nil {
		t.Errorf("even ledger should produce no settlement, got %+v", s)
	}
}
