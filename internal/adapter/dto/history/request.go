package history

// ListHistoryRequest represents the path and query parameters for listing meeting history
type ListHistoryRequest struct {
	UserID string `param:"user_id" validate:"required,max=64"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
}
