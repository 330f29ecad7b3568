package dto

type ExtractSkillsRequest struct {
	Text string `json:"text"`
}

type MatchRolesRequest struct {
	SkillIDs []string `json:"skill_ids"`
	Limit    int      `json:"limit"`
}

type RecommendBridgesRequest struct {
	GapIDs       []string `json:"gap_ids"`
	UserSkillIDs []string `json:"user_skill_ids"`
	Limit        int      `json:"limit"`
}

type AnalyzeRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

type ResumeObjectRequest struct {
	ObjectKey string `json:"object_key"`
	Mime      string `json:"mime"`
	Limit     int    `json:"limit"`
}

// SessionAnalyzeRequest runs inline unless Async is set, in which case the
// work is queued for cmd/worker.
type SessionAnalyzeRequest struct {
	Text      string `json:"text"`
	ObjectKey string `json:"object_key"`
	Mime      string `json:"mime"`
	Limit     int    `json:"limit"`
	Async     bool   `json:"async"`
}
