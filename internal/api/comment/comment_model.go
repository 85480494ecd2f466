package comment

type CreateCommentRequest struct {
	Content string `json:"content" example:"Great finale."`
}
