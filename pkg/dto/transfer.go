package dto

type ExportEnvelope struct {
	Type     string `json:"type"`
	Version  string `json:"version"`
	Data     string `json:"data"`
	Checksum string `json:"checksum"`
}

type ExportRequest struct {
	ExportPassword string `json:"exportPassword" validate:"required"`
}

type ExportResponse struct {
	ExportData ExportEnvelope `json:"exportData"`
	ItemCount  int            `json:"itemCount"`
}

type ImportRequest struct {
	ImportData      *ExportEnvelope `json:"importData" validate:"required"`
	ImportPassword  string          `json:"importPassword" validate:"required"`
	ReplaceExisting bool            `json:"replaceExisting"`
}

type ImportItemResult struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Imported bool   `json:"imported"`
	Reason   string `json:"reason,omitempty"`
}

type ImportResponse struct {
	Message  string             `json:"message"`
	Imported int                `json:"imported"`
	Total    int                `json:"total"`
	Results  []ImportItemResult `json:"results"`
}
