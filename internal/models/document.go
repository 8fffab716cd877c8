package models

// Template is a fillable PDF found under the configured PDF directory.
type Template struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// SubmitResponse is returned by POST /submit on success.
type SubmitResponse struct {
	Status   string    `json:"status"`
	FilePath string    `json:"filepath"`
	Document *Document `json:"document,omitempty"`
}

// Document is a merged output PDF written to the PDF directory.
type Document struct {
	FileName    string `json:"fileName"`
	Path        string `json:"-"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Pages       int    `json:"pages,omitempty"`
	CreatedAt   string `json:"createdAt"`
}
