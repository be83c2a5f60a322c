package domain

// ContactRecord is built up across the contact flow's four turns and
// submitted atomically to the intake endpoint. Phone holds digits only.
type ContactRecord struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Comments string `json:"comments"`
}

// ContactCategory tags records coming out of the chat widget.
const ContactCategory = "CONTACT PAGE"
