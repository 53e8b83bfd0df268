package model

// DraftPost is a generated post. Model is the model actually used after
// any fallback.
type DraftPost struct {
	Text           string `json:"text"`
	Model          string `json:"model"`
	CandidateCount int    `json:"candidate_count"`
}
