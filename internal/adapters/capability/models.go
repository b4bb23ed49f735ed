package capability

// Wire shapes for the hosted provider

type checkRequest struct {
	Content string `json:"content"`
}

type checkResponse struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale,omitempty"`
}

type humanizeRequest struct {
	Content     string `json:"content"`
	Readability string `json:"readability"`
	Purpose     string `json:"purpose"`
	Strength    string `json:"strength"`
}

type humanizeResponse struct {
	Content string `json:"content"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}
