package model

// ContactSet holds the deduplicated, sorted contact details found on one
// website.
type ContactSet struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// Empty reports whether nothing was found.
func (c ContactSet) Empty() bool {
	return len(c.Emails) == 0 && len(c.Phones) == 0
}
