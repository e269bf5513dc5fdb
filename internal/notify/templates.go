package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// SiteName appears in subjects and headers.
const SiteName = "Unit Availability"

// OTPEmailData holds data for login code e-mails.
type OTPEmailData struct {
	Name             string
	Code             string
	ExpiresInMinutes int
}

// BuildOTPEmail creates a login code e-mail. The recipient is set by the caller.
func BuildOTPEmail(data OTPEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "Hello %s,\n\n", data.Name)
	fmt.Fprintf(&text, "Your %s login code is: %s\n\n", SiteName, data.Code)
	fmt.Fprintf(&text, "This code expires in %d minutes.\n\n", data.ExpiresInMinutes)
	text.WriteString("If you did not request this code, you can safely ignore this email.\n")
	return Email{
		Kind:     KindOTP,
		Subject:  fmt.Sprintf("Your %s login code", SiteName),
		TextBody: text.String(),
		HTMLBody: render(otpHTML, data),
	}
}

// ApprovalEmailData holds data for approval e-mails.
type ApprovalEmailData struct {
	Name     string
	LoginURL string
}

// BuildApprovalEmail tells a user their access request was approved.
func BuildApprovalEmail(data ApprovalEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "Hello %s,\n\n", data.Name)
	fmt.Fprintf(&text, "Your access request to %s has been approved.\n", SiteName)
	if data.LoginURL != "" {
		fmt.Fprintf(&text, "You can sign in at %s\n", data.LoginURL)
	}
	text.WriteString("A login code has been sent in a separate email.\n")
	return Email{
		Kind:     KindApproval,
		Subject:  fmt.Sprintf("Your %s access was approved", SiteName),
		TextBody: text.String(),
		HTMLBody: render(approvalHTML, data),
	}
}

// AlertEmailData holds data for manager broadcasts.
type AlertEmailData struct {
	SenderName string
	Subject    string
	Message    string
}

// BuildAlertEmail wraps a manager broadcast.
func BuildAlertEmail(data AlertEmailData) Email {
	return Email{
		Kind:     KindAlert,
		Subject:  fmt.Sprintf("[%s] %s", SiteName, data.Subject),
		TextBody: fmt.Sprintf("%s\n\n-- %s\n", data.Message, data.SenderName),
		HTMLBody: render(alertHTML, data),
	}
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

var (
	otpHTML = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif;">
<p>Hello {{.Name}},</p>
<p>Your login code is:</p>
<p style="font-size: 28px; font-weight: 700; letter-spacing: 6px; font-family: 'Courier New', monospace;">{{.Code}}</p>
<p style="color: #6b7280;">This code expires in {{.ExpiresInMinutes}} minutes.</p>
</body></html>`))

	approvalHTML = template.Must(template.New("approval").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif;">
<p>Hello {{.Name}},</p>
<p>Your access request has been approved.</p>
{{if .LoginURL}}<p><a href="{{.LoginURL}}">Sign in</a></p>{{end}}
<p style="color: #6b7280;">A login code has been sent in a separate email.</p>
</body></html>`))

	alertHTML = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif;">
<h2>{{.Subject}}</h2>
<p style="white-space: pre-wrap;">{{.Message}}</p>
<p style="color: #6b7280;">{{.SenderName}}</p>
</body></html>`))
)
