package checkoutsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDonationAmount(t *testing.T) {
	testCases := []struct {
		amountInCents int64
		expected      string
	}{
		{50, "0.50"},
		{100, "1.00"},
		{1050, "10.50"},
		{2501, "25.01"},
		{10000, "100.00"},
		{-250, "-2.50"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDonationAmount(tc.amountInCents))
		})
	}
}

func TestComposeSessionParams(t *testing.T) {
	params := composeSessionParams(5000, "http://localhost:3000", "ref_1")

	assert.Equal(t, "http://localhost:3000/?success=true", *params.SuccessURL)
	assert.Equal(t, "http://localhost:3000/?canceled=true", *params.CancelURL)
	assert.Equal(t, "50.00", params.Metadata["donation_amount"])
	assert.Equal(t, int64(5000), *params.LineItems[0].PriceData.UnitAmount)
	assert.Nil(t, params.CustomerEmail)
}
