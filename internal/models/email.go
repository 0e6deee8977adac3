package models

// EmailDraft is an editable message on its way to the system mail handler.
type EmailDraft struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
