package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"melbgo/trip"
)

func TestParseCSVToExpenses(t *testing.T) {
	content := [][]string{
		{"title", "amount", "currency", "payer", "involved"},
		{"dinner", "100", "AUD", "我", "我, 旅伴"},
		{"taxi", "430", "twd", "旅伴", "旅伴"},
	}

	expenses, err := ParseCSVToExpenses(content)
	assert.NoError(t, err)
	assert.Len(t, expenses, 2)

	assert.Equal(t, "dinner", expenses[0].Title)
	assert.Equal(t, trip.AUD, expenses[0].Currency)
	assert.Equal(t, []string{"我", "旅伴"}, expenses[0].Involved, "involved cells are split and trimmed")

	assert.Equal(t, trip.TWD, expenses[1].Currency, "currency is case insensitive")
	assert.Equal(t, 430.0, expenses[1].Amount)
}

func TestParseCSVToExpenses_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content [][]string
	}{
		{name: "Empty CSV", content: [][]string{}},
		{name: "Wrong column count", content: [][]string{
			{"title", "amount", "currency", "payer", "involved"},
			{"dinner", "100", "AUD"},
		}},
		{name: "Bad amount", content: [][]string{
			{"title", "amount", "currency", "payer", "involved"},
			{"dinner", "a lot", "AUD", "我", "我"},
		}},
		{name: "Unknown currency", content: [][]string{
			{"title", "amount", "currency", "payer", "involved"},
			{"dinner", "100", "USD", "我", "我"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSVToExpenses(tt.content)
			assert.Error(t, err)
		})
	}
}
