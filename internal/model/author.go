package model

// EnrichedAuthor is an account identity augmented with the profile fields the
// audit cares about. Company and Email are empty when the profile does not
// expose them or when the account could not be resolved at all.
type EnrichedAuthor struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
}
