package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromProvider(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		want           SubscriptionStatus
	}{
		{name: "active", providerStatus: "active", want: SubscriptionActive},
		{name: "canceled", providerStatus: "canceled", want: SubscriptionCancelled},
		{name: "past_due", providerStatus: "past_due", want: SubscriptionPastDue},
		{name: "unpaid", providerStatus: "unpaid", want: SubscriptionExpired},
		{name: "uppercase", providerStatus: "ACTIVE", want: SubscriptionActive},
		{name: "trialing falls back to active", providerStatus: "trialing", want: SubscriptionActive},
		{name: "empty falls back to active", providerStatus: "", want: SubscriptionActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromProvider(tt.providerStatus))
		})
	}
}
