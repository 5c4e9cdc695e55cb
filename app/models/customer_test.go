package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCustomerSegment(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -10)
	old := now.AddDate(0, 0, -120)

	tests := []struct {
		name     string
		customer Customer
		want     string
	}{
		{
			name:     "few messages is new",
			customer: Customer{MessageCount: 2, TotalSpent: 500000, LastOrderAt: &recent},
			want:     CustomerSegmentNew,
		},
		{
			name:     "no orders ever is dormant",
			customer: Customer{MessageCount: 10},
			want:     CustomerSegmentDormant,
		},
		{
			name:     "stale last order is dormant",
			customer: Customer{MessageCount: 10, TotalSpent: 500000, LastOrderAt: &old},
			want:     CustomerSegmentDormant,
		},
		{
			name:     "big spender with engagement is vip",
			customer: Customer{MessageCount: 8, TotalSpent: 150000, LastOrderAt: &recent},
			want:     CustomerSegmentVIP,
		},
		{
			name:     "active but modest spend is regular",
			customer: Customer{MessageCount: 5, TotalSpent: 20000, LastOrderAt: &recent},
			want:     CustomerSegmentRegular,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.customer.Segment(now))
		})
	}
}

func TestCustomerValidate(t *testing.T) {
	customer := Customer{Name: "Ada Obi", Phone: "+2348012345678"}
	assert.NoError(t, customer.Validate())

	customer.Email = "not-an-email"
	assert.Error(t, customer.Validate())

	customer = Customer{Name: "A", Phone: "+2348012345678"}
	assert.Error(t, customer.Validate())
}
