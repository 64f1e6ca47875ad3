package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gclient/models"
)

const layoutHTML = `{{define "layout"}}<div style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 40px 0;">
  <div style="max-width: 600px; margin: auto; background: white; padding: 30px; border-radius: 8px;">
    <h2>Hello {{.FirstName}}</h2>
    {{template "content" .}}
    <br>
    <p style="font-size: 14px; color: #888;">G-Client Team</p>
  </div>
</div>{{end}}`

const verificationHTML = `{{define "content"}}<p style="font-size: 14px; color: #333;">You registered as {{.Role}}.</p>
    <p style="font-size: 16px; color: #333;">Your one-time verification code:</p>
    <p style="font-size: 32px; font-weight: bold; color: #003b5c; letter-spacing: 2px;">{{.Code}}</p>
    <p style="font-size: 14px; color: #666;">This code expires after {{.ExpiresIn}}.</p>{{end}}`

const invoiceHTML = `{{define "content"}}<p>An invoice of <strong>GHS {{money .Amount}}</strong> has been raised for <strong>{{.TrackName}}</strong>.</p>
    <p>Please complete payment before <strong>{{date .DueDate}}</strong>.</p>
    {{if .PaymentDetails}}<p>{{.PaymentDetails}}</p>{{end}}
    <p><a href="{{.PaymentLink}}" style="background: #01589a; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Pay now</a></p>{{end}}`

const confirmationHTML = `{{define "content"}}<p>We received your payment of <strong>GHS {{money .AmountPaid}}</strong> for <strong>{{.TrackName}}</strong>.</p>
    {{if .Paid}}<p>Your invoice is now fully paid. Welcome aboard!</p>{{else}}<p>Outstanding balance on this invoice: <strong>GHS {{money .Outstanding}}</strong>.</p>{{end}}
    <p>Reference: {{.Reference}}</p>{{end}}`

const reminderHTML = `{{define "content"}}<p>This is a reminder that your invoice for <strong>{{.TrackName}}</strong> is due on <strong>{{date .DueDate}}</strong>.</p>
    <p>Outstanding: <strong>GHS {{money .Outstanding}}</strong></p>
    <p><a href="{{.PaymentLink}}">Complete payment</a></p>{{end}}`

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"date":  func(t time.Time) string { return t.Format("Mon, 02 Jan 2006") },
}

var (
	verificationTmpl = mustTemplate("verification", verificationHTML)
	invoiceTmpl      = mustTemplate("invoice", invoiceHTML)
	confirmationTmpl = mustTemplate("confirmation", confirmationHTML)
	reminderTmpl     = mustTemplate("reminder", reminderHTML)
)

func mustTemplate(name, content string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).Parse(layoutHTML))
	return template.Must(t.Parse(content))
}

// emailData is the union of fields the templates read.
type emailData struct {
	FirstName      string
	Role           string
	Code           string
	ExpiresIn      string
	TrackName      string
	Amount         float64
	AmountPaid     float64
	Outstanding    float64
	Paid           bool
	DueDate        time.Time
	PaymentLink    string
	PaymentDetails string
	Reference      string
}

func render(t *template.Template, to, subject string, data emailData) (models.EmailMessage, error) {
	var body bytes.Buffer
	if err := t.ExecuteTemplate(&body, "layout", data); err != nil {
		return models.EmailMessage{}, fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return models.EmailMessage{To: to, Subject: subject, HTML: body.String()}, nil
}

func trackName(track *models.Track) string {
	if track == nil || track.Name == "" {
		return "your track"
	}
	return track.Name
}

// VerificationEmail renders the signup OTP email.
func VerificationEmail(user *models.User, code, expiresIn string) (models.EmailMessage, error) {
	role := "a learner"
	if user.Role == models.RoleAdmin {
		role = "an admin"
	}
	return render(verificationTmpl, user.Email, "Verify your G-Client account", emailData{
		FirstName: user.FirstName,
		Role:      role,
		Code:      code,
		ExpiresIn: expiresIn,
	})
}

// InvoiceEmail renders the "invoice issued" email with the payment link.
func InvoiceEmail(learner *models.User, track *models.Track, inv *models.Invoice) (models.EmailMessage, error) {
	return render(invoiceTmpl, learner.Email, "New invoice for "+trackName(track), emailData{
		FirstName:      learner.FirstName,
		TrackName:      trackName(track),
		Amount:         inv.Amount,
		DueDate:        inv.DueDate,
		PaymentLink:    inv.PaymentLink,
		PaymentDetails: inv.PaymentDetails,
	})
}

// ConfirmationEmail renders the payment receipt.
func ConfirmationEmail(learner *models.User, track *models.Track, inv *models.Invoice) (models.EmailMessage, error) {
	return render(confirmationTmpl, learner.Email, "Payment received for "+trackName(track), emailData{
		FirstName:   learner.FirstName,
		TrackName:   trackName(track),
		AmountPaid:  inv.AmountPaid,
		Outstanding: inv.Outstanding(),
		Paid:        inv.IsPaid(),
		Reference:   inv.Reference,
	})
}

// ReminderEmail renders the payment-due reminder.
func ReminderEmail(learner *models.User, track *models.Track, inv *models.Invoice) (models.EmailMessage, error) {
	return render(reminderTmpl, learner.Email, "Payment reminder for "+trackName(track), emailData{
		FirstName:   learner.FirstName,
		TrackName:   trackName(track),
		Outstanding: inv.Outstanding(),
		DueDate:     inv.DueDate,
		PaymentLink: inv.PaymentLink,
	})
}
