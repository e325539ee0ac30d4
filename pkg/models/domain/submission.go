package domain

// PolicyFile is the file selected for upload.
type PolicyFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// Submission is what gets posted to the backend.
type Submission struct {
	CompanyName string
	File        PolicyFile
}
