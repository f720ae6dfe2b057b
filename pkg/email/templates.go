package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
)

// Notification types sent over the order lifecycle.
const (
	TypeOrderPlaced      = "order_placed"
	TypeOrderAccepted    = "order_accepted"
	TypeOrderRejected    = "order_rejected"
	TypeReadyForDelivery = "ready_for_delivery"
	TypeOrderDelivered   = "order_delivered"
	TypePasswordReset    = "password_reset"
)

// TemplateManager holds the parsed email templates, keyed by notification
// type.
type TemplateManager struct {
	templates map[string]*template.Template
	subjects  map[string]string
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	sources := map[string]string{
		TypeOrderPlaced:      orderPlacedTemplate,
		TypeOrderAccepted:    orderAcceptedTemplate,
		TypeOrderRejected:    orderRejectedTemplate,
		TypeReadyForDelivery: readyForDeliveryTemplate,
		TypeOrderDelivered:   orderDeliveredTemplate,
		TypePasswordReset:    passwordResetTemplate,
	}

	tm := &TemplateManager{
		templates: make(map[string]*template.Template, len(sources)),
		subjects: map[string]string{
			TypeOrderPlaced:      "New Order Received - %s",
			TypeOrderAccepted:    "Your Order Has Been Accepted! - %s",
			TypeOrderRejected:    "Order Update - %s",
			TypeReadyForDelivery: "Your Vegetables Are Ready! - %s",
			TypeOrderDelivered:   "Order Delivered - %s",
			TypePasswordReset:    "Reset Your GrowShare Password",
		},
	}

	for name, src := range sources {
		tmpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, err
		}
		tm.templates[name] = tmpl
	}

	log.Println("Email templates parsed successfully.")
	return tm, nil
}

// TemplateData holds the dynamic data for a notification email.
type TemplateData struct {
	RecipientName string
	CustomerName  string
	FarmerName    string
	VegetableName string
	Reason        string
	Link          string
}

// Render executes the template for the given notification type and returns
// the subject line and HTML body.
func (tm *TemplateManager) Render(notificationType string, data TemplateData) (subject, html string, err error) {
	tmpl, ok := tm.templates[notificationType]
	if !ok {
		return "", "", fmt.Errorf("unknown notification type %q", notificationType)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", "", err
	}

	subject = tm.subjects[notificationType]
	if notificationType != TypePasswordReset {
		subject = fmt.Sprintf(subject, data.VegetableName)
	}
	return subject, body.String(), nil
}

// --- HTML Template Definitions ---

const orderPlacedTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h1>New Order Alert! 🌱</h1>
	<p>Hello {{.RecipientName}},</p>
	<p>Great news! You've received a new order for <strong>{{.VegetableName}}</strong> from {{.CustomerName}}.</p>
	<p>Please log in to your dashboard to review and accept the order.</p>
	<br>
	<p>Best regards,<br>The GrowShare Team</p>
</body>
</html>
`

const orderAcceptedTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h1>Order Confirmed! 🎉</h1>
	<p>Hello {{.RecipientName}},</p>
	<p>Your order for <strong>{{.VegetableName}}</strong> has been accepted by {{.FarmerName}}.</p>
	<p>The farmer will now begin growing your vegetables. You can track the progress in your dashboard.</p>
	<br>
	<p>Best regards,<br>The GrowShare Team</p>
</body>
</html>
`

const orderRejectedTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h1>Order Update</h1>
	<p>Hello {{.RecipientName}},</p>
	<p>Unfortunately, your order for <strong>{{.VegetableName}}</strong> could not be accepted at this time.</p>
	{{if .Reason}}<p>Reason given: {{.Reason}}</p>{{end}}
	<p>Please try ordering from another farmer or contact support for assistance.</p>
	<br>
	<p>Best regards,<br>The GrowShare Team</p>
</body>
</html>
`

const readyForDeliveryTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h1>Harvest Complete! 🥬</h1>
	<p>Hello {{.RecipientName}},</p>
	<p>Your <strong>{{.VegetableName}}</strong> has been harvested and is ready for delivery!</p>
	<p>Please complete the final payment in your dashboard to arrange delivery.</p>
	<br>
	<p>Best regards,<br>The GrowShare Team</p>
</body>
</html>
`

const orderDeliveredTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h1>Enjoy Your Fresh Vegetables! 🥗</h1>
	<p>Hello {{.RecipientName}},</p>
	<p>Your order of <strong>{{.VegetableName}}</strong> has been delivered!</p>
	<p>We hope you enjoy your fresh, organic produce. Thank you for choosing GrowShare!</p>
	<br>
	<p>Best regards,<br>The GrowShare Team</p>
</body>
</html>
`

const passwordResetTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Password Reset Request</h2>
	<p>Hello {{.RecipientName}},</p>
	<p>We received a request to reset your password. Please click the link below to set a new password:</p>
	<p><a href="{{.Link}}">Reset Password</a></p>
	<p>This link will expire in 15 minutes.</p>
	<p>If you did not request a password reset, please ignore this email.</p>
</body>
</html>
`
