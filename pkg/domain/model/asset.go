package model

// AssetDescriptor is computed fresh from a local file for each upload.
type AssetDescriptor struct {
	Name        string // Basename of the local file
	ContentType string
	Size        int64
	Data        []byte
}

// Asset is the remote record of an uploaded asset.
type Asset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Label              string `json:"label"`
	State              string `json:"state"`
	ContentType        string `json:"content_type"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// UploadResponse is the parsed result of a raw asset upload. The body is
// parsed regardless of status so the remote-provided message is available
// on failure.
type UploadResponse struct {
	StatusCode int
	Asset      *Asset
	Message    string // Remote error message, empty on success
}

// PublishSummary describes a completed publish run for notification.
type PublishSummary struct {
	Owner      string
	Repo       string
	TagName    string
	ReleaseURL string
	Assets     []string
}
