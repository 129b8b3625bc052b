package balance

import (
	"fmt"
	"math"

	"melbgo/trip"
)

// Threshold for float comparisons
const epsilon = 1e-9

// DefaultRate is the fallback TWD-per-AUD exchange rate.
const DefaultRate = 21.5

// Normalize converts an amount into AUD, the base currency of the
// ledger. TWD amounts divide by the rate; AUD amounts pass through.
func Normalize(amount float64, currency trip.Currency, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultRate
	}
	if currency == trip.TWD {
		return amount / rate
	}
	return amount
}

// ToTWD converts an AUD amount with the given rate.
func ToTWD(aud, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultRate
	}
	return aud * rate
}

// ToAUD converts a TWD amount with the given rate.
func ToAUD(twd, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultRate
	}
	return twd / rate
}

// Balances computes each user's net position in AUD. Every expense is
// normalized, credited to its payer, and split equally across the
// involved users. Positive means the user is owed money; the positions
// of all users always sum to zero within float tolerance.
func Balances(expenses []trip.Expense, rate float64) map[string]float64 {
	balances := make(map[string]float64, len(trip.Users))
	for _, u := range trip.Users {
		balances[u] = 0
	}

	for _, e := range expenses {
		if len(e.Involved) == 0 {
			continue
		}
		amount := Normalize(e.Amount, e.Currency, rate)
		share := amount / float64(len(e.Involved))

		balances[e.Payer] += amount
		for _, u := range e.Involved {
			balances[u] -= share
		}
	}
	return balances
}

// Settlement is one payment closing out a debt between two users.
// AmountTWD is the approximation at the rate in effect, for display.
type Settlement struct {
	From      string
	To        string
	AmountAUD float64
	AmountTWD float64
}

func (s Settlement) String() string {
	return fmt.Sprintf("%s owes %s $%.2f AUD (≈ NT$%.0f)", s.From, s.To, s.AmountAUD, s.AmountTWD)
}

// TwoUserSettlement resolves the shared ledger of the two trip users
// into a single payment, or nil when they are already even.
func TwoUserSettlement(balances map[string]float64, rate float64) *Settlement {
	if len(trip.Users) < 2 {
		return nil
	}
	first, second := trip.Users[0], trip.Users[1]
	net := balances[first]
	if math.Abs(net) < epsilon {
		return nil
	}

	s := &Settlement{From: second, To: first, AmountAUD: net}
	if net < 0 {
		s.From, s.To = first, second
		s.AmountAUD = -net
	}
	s.AmountTWD = ToTWD(s.AmountAUD, rate)
	return s
}
