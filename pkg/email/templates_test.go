package email

import (
	"strings"
	"testing"
)

func TestRenderOrderLifecycleEmails(t *testing.T) {
	tm, err := NewTemplateManager()
	if err != nil {
		t.Fatalf("NewTemplateManager: %v", err)
	}

	data := TemplateData{
		RecipientName: "Asha",
		CustomerName:  "Ravi",
		FarmerName:    "Green Acres",
		VegetableName: "Tomato",
		Reason:        "land is flooded",
	}

	cases := []struct {
		notificationType string
		wantSubject      string
	}{
		{TypeOrderPlaced, "New Order Received - Tomato"},
		{TypeOrderAccepted, "Your Order Has Been Accepted! - Tomato"},
		{TypeOrderRejected, "Order Update - Tomato"},
		{TypeReadyForDelivery, "Your Vegetables Are Ready! - Tomato"},
		{TypeOrderDelivered, "Order Delivered - Tomato"},
	}

	for _, tc := range cases {
		subject, html, err := tm.Render(tc.notificationType, data)
		if err != nil {
			t.Fatalf("Render(%s): %v", tc.notificationType, err)
		}
		if subject != tc.wantSubject {
			t.Errorf("Render(%s) subject = %q, want %q", tc.notificationType, subject, tc.wantSubject)
		}
		if !strings.Contains(html, "Asha") {
			t.Errorf("Render(%s) body does not address the recipient", tc.notificationType)
		}
		if !strings.Contains(html, "Tomato") {
			t.Errorf("Render(%s) body does not name the vegetable", tc.notificationType)
		}
	}
}

func TestRenderRejectionIncludesReason(t *testing.T) {
	tm, err := NewTemplateManager()
	if err != nil {
		t.Fatalf("NewTemplateManager: %v", err)
	}

	_, html, err := tm.Render(TypeOrderRejected, TemplateData{
		RecipientName: "Ravi",
		VegetableName: "Spinach",
		Reason:        "land is flooded",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "land is flooded") {
		t.Error("rejection email does not carry the farmer's reason")
	}
}

func TestRenderPasswordReset(t *testing.T) {
	tm, err := NewTemplateManager()
	if err != nil {
		t.Fatalf("NewTemplateManager: %v", err)
	}

	subject, html, err := tm.Render(TypePasswordReset, TemplateData{
		RecipientName: "Asha",
		Link:          "https://growshare.example/reset-password?token=abc",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "Reset Your GrowShare Password" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(html, "https://growshare.example/reset-password?token=abc") {
		t.Error("reset email does not carry the link")
	}
}

func TestRenderUnknownType(t *testing.T) {
	tm, err := NewTemplateManager()
	if err != nil {
		t.Fatalf("NewTemplateManager: %v", err)
	}
	if _, _, err := tm.Render("order_exploded", TemplateData{}); err == nil {
		t.Fatal("expected an error for an unknown notification type")
	}
}
