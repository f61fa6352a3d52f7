package model

// Readme is the raw readme object as returned by the contents API.
type Readme struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url"`
}

// ReadmeContent is a readme with its content decoded to text.
type ReadmeContent struct {
	Name    string
	Content string
}
