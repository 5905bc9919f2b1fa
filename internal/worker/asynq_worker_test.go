package worker

import (
	"testing"

	"github.com/coachpanel/internal/constants"
)

func TestPurchaseStatusTemplateType(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{status: "completed", want: constants.EmailTemplateTypePaymentSuccess},
		{status: " Completed ", want: constants.EmailTemplateTypePaymentSuccess},
		{status: "failed", want: constants.EmailTemplateTypePaymentFailed},
		{status: "refunded", want: constants.EmailTemplateTypeSubscriptionCanceled},
		{status: "cancelled", want: constants.EmailTemplateTypeSubscriptionCanceled},
		{status: "pending", want: ""},
		{status: "", want: ""},
	}
	for _, item := range cases {
		if got := purchaseStatusTemplateType(item.status); got != item.want {
			t.Fatalf("template type for %q: want %q, got %q", item.status, item.want, got)
		}
	}
}
