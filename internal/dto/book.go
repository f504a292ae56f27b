package dto

// BookLookupResponse is the trimmed ISBN lookup result returned to clients.
type BookLookupResponse struct {
	Title         string `json:"title"`
	CoverImageURL string `json:"cover_image_url"`
}
