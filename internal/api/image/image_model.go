package image

// CreateImageRequest records an already-uploaded asset in the catalog.
type CreateImageRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type UpdateStatusRequest struct {
	Status int `json:"status"`
}
