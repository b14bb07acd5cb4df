package pixeldrain

type ListResponse struct {
	Success   bool    `json:"success"`
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	FileCount int     `json:"file_count"`
	Files     []*File `json:"files"`

	// set on errors
	Value   string `json:"value"`
	Message string `json:"message"`
}

type File struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	DetailHref string `json:"detail_href"`
}
