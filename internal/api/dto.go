package api

// InputDTO is the wire form of one explanation input: scalar text or
// masker segments, with an optional secondary pair input.
type InputDTO struct {
	Text     string   `json:"text,omitempty"`
	Segments []string `json:"segments,omitempty"`
	Pair     string   `json:"pair,omitempty"`
}

// CreateSessionRequest opens one explanation session. A session owns one
// scorer instance; callers must not score different rows concurrently
// through the same session.
type CreateSessionRequest struct {
	Model           string   `json:"model" validate:"required"`
	Vocab           []string `json:"vocab,omitempty" validate:"omitempty,min=2,dive,required"`
	Seed            int64    `json:"seed,omitempty"`
	MaxTargetTokens int      `json:"max_target_tokens,omitempty" validate:"omitempty,min=1,max=4096"`
	Invalidation    string   `json:"invalidation,omitempty" validate:"omitempty,oneof=any full"`
}

// SessionResponse describes a session.
type SessionResponse struct {
	ID          string   `json:"id"`
	Model       string   `json:"model"`
	CreatedAt   int64    `json:"created_at"`
	OutputNames []string `json:"output_names,omitempty"`
}

// ScoreRequest pairs masked inputs with their original rows.
type ScoreRequest struct {
	Masked   []InputDTO `json:"masked" validate:"required,min=1"`
	Original []InputDTO `json:"original" validate:"required,min=1"`
}

// ScoreResponse carries one log-odds vector per input pair, in request
// order, plus the column labels of the current row.
type ScoreResponse struct {
	Scores      [][]float64 `json:"scores"`
	OutputNames []string    `json:"output_names"`
}

// ResponseError is the error payload envelope.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}
