package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionCategory(t *testing.T) {
	tests := []struct {
		action Action
		want   EventCategory
	}{
		{ActionDisclosureRendered, CategoryCompliance},
		{ActionConsentGranted, CategoryCompliance},
		{ActionConsentRevoked, CategoryCompliance},
		{ActionPreferencesUpdated, CategoryCompliance},
		{ActionNegotiationApproved, CategoryCompliance},
		{ActionNegotiationDenied, CategoryCompliance},
		{ActionConsentChecked, CategoryOperations},
		{ActionNegotiationRequested, CategoryOperations},
		{Action("something_new"), CategoryOperations},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.action.Category(), "action %s", tt.action)
	}
}
