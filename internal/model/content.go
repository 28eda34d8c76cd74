package model

import "time"

// Meta carries the store-managed fields shared by every content document.
// It is embedded (and inlined for BSON) so documents serialize flat, the
// way the frontend expects them.
type Meta struct {
	ID        string    `json:"_id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Base gives generic stores access to the metadata of any document.
func (m *Meta) Base() *Meta { return m }

// Document is implemented by pointers to every content type.
type Document interface {
	Base() *Meta
}

// Blog is a blog post.
type Blog struct {
	Meta      `bson:",inline"`
	Title     string   `json:"title" bson:"title"`
	Summary   string   `json:"summary" bson:"summary"`
	Content   string   `json:"content" bson:"content"`
	Category  string   `json:"category" bson:"category"`
	Tags      []string `json:"tags" bson:"tags"`
	Thumbnail string   `json:"thumbnail" bson:"thumbnail"`
}

// StudyResource is a downloadable study document.
type StudyResource struct {
	Meta        `bson:",inline"`
	Title       string `json:"title" bson:"title"`
	Category    string `json:"category" bson:"category"`
	Description string `json:"description" bson:"description"`
	Format      string `json:"format" bson:"format"`
	FileURL     string `json:"fileUrl" bson:"fileUrl"`
	Icon        string `json:"icon" bson:"icon"`
	UploadDate  string `json:"uploadDate" bson:"uploadDate"`
}

// DefaultStudyIcon is used when a resource is created without an icon.
const DefaultStudyIcon = "FileText"

// Project is a portfolio project.
type Project struct {
	Meta            `bson:",inline"`
	Title           string   `json:"title" bson:"title"`
	Description     string   `json:"description" bson:"description"`
	LongDescription string   `json:"longDescription" bson:"longDescription"`
	Image           string   `json:"image" bson:"image"`
	TechStack       []string `json:"techStack" bson:"techStack"`
	Features        []string `json:"features" bson:"features"`
	GithubURL       string   `json:"githubUrl" bson:"githubUrl"`
	LiveURL         string   `json:"liveUrl" bson:"liveUrl"`
	BuiltDate       string   `json:"builtDate" bson:"builtDate"`
	Category        string   `json:"category" bson:"category"`
	Type            string   `json:"type" bson:"type"`
	Tags            []string `json:"tags" bson:"tags"`
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	Meta    `bson:",inline"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Message string `json:"message" bson:"message"`
	IsRead  bool   `json:"isRead" bson:"isRead"`
}
