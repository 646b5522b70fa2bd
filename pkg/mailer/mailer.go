package mailer

import "context"

const (
	// ResultSent marks a message accepted by the transport.
	ResultSent = "SENT"
	// ResultError marks a transport failure. Send resolves with this
	// instead of returning an error so callers can count and continue.
	ResultError = "EMAIL_ERROR"
)

// TemplateMessage is one templated email. Vars are merged into the
// provider-side template named by Template.
type TemplateMessage struct {
	Template   string
	To         string
	ToName     string
	Subject    string
	Vars       map[string]interface{}
	Tags       []string
	SubAccount string
}

// Result is the outcome of a single send attempt.
type Result struct {
	Key     string
	Code    int
	Message string
	Email   string
}

func (r Result) Failed() bool { return r.Key == ResultError }

// Mailer sends templated mail and plain operational summaries.
type Mailer interface {
	SendTemplate(ctx context.Context, msg TemplateMessage) Result
	SendSummary(ctx context.Context, to []string, subject, htmlBody string) error
}
