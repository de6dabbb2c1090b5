package notification

import (
	"fmt"
	"html"
)

// assignmentSubject is the subject line for assignment notifications.
func assignmentSubject(assetID string) string {
	return fmt.Sprintf("IT Asset Assignment - %s", assetID)
}

// assignmentBody builds the HTML email accompanying the acknowledgement
// document.
func assignmentBody(companyName string, asset AssetSnapshot, assignee AssigneeInfo) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2 style="color: #2c3e50;">IT Asset Assignment Notification</h2>
  <p>Dear %s,</p>
  <p>The following IT asset has been assigned to you:</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><td style="padding: 4px 8px;"><strong>Asset ID</strong></td><td style="padding: 4px 8px;">%s</td></tr>
    <tr><td style="padding: 4px 8px;"><strong>Category</strong></td><td style="padding: 4px 8px;">%s</td></tr>
    <tr><td style="padding: 4px 8px;"><strong>Model</strong></td><td style="padding: 4px 8px;">%s</td></tr>
    <tr><td style="padding: 4px 8px;"><strong>Serial Number</strong></td><td style="padding: 4px 8px;">%s</td></tr>
  </table>
  <p>Please review the attached acknowledgement document, sign it, and return it to the IT department.</p>
  <p>If any of the details above are incorrect, contact the IT department before signing.</p>
  <p>Regards,<br>%s IT Department</p>
</div>`,
		html.EscapeString(orNA(assignee.Name)),
		html.EscapeString(orNA(asset.AssetID)),
		html.EscapeString(orNA(asset.Category)),
		html.EscapeString(orNA(asset.Model)),
		html.EscapeString(orNA(asset.SerialNumber)),
		html.EscapeString(companyName),
	)
}

// resetBody builds the password reset email. The link expires after an
// hour; the copy says so.
func resetBody(companyName, resetLink string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2 style="color: #2c3e50;">Password Reset Request</h2>
  <p>A password reset was requested for your account. Click the link below to choose a new password:</p>
  <p><a href="%s">Reset your password</a></p>
  <p>This link expires in 1 hour. If you did not request a reset, you can ignore this email.</p>
  <p>Regards,<br>%s IT Department</p>
</div>`, resetLink, html.EscapeString(companyName))
}

// adhocBody wraps operator-submitted plain text for HTML delivery.
func adhocBody(message string) string {
	return fmt.Sprintf(`<pre style="font-family: Arial, sans-serif; white-space: pre-wrap;">%s</pre>`,
		html.EscapeString(message))
}
