package domain

// RawFile represents opaque bytes downloaded from the document platform.
// It is the connector's output before text extraction.
type RawFile struct {
	// Name is the file name including extension.
	Name string

	// Path is the platform path or parent folder, for context in errors.
	Path string

	// Extension is the lower-cased extension including the dot (".docx").
	Extension string

	// WebURL links to the file in the platform's UI.
	WebURL string

	// Content is the raw bytes.
	Content []byte
}

// ExtractedText is a normaliser's output for one file.
type ExtractedText struct {
	// Title is a human-readable title, usually derived from the file name.
	Title string

	// Text is the extracted plain text.
	Text string
}

// FileSummary describes one file that contributed to a document insight.
type FileSummary struct {
	Name   string `json:"name"`
	WebURL string `json:"webUrl,omitempty"`

	// Chars is the number of extracted characters after capping.
	Chars int `json:"chars"`
}

// DocumentInsight is the normalised answer from the document platform.
type DocumentInsight struct {
	// Files lists the documents the insight was built from.
	Files []FileSummary `json:"files"`

	// Summary is the focused answer to the question. When no LLM is
	// configured it carries the capped extracted text instead.
	Summary string `json:"summary"`

	// SummarisedByLLM reports whether Summary came from the model or is
	// raw extracted text.
	SummarisedByLLM bool `json:"summarisedByLLM"`
}
