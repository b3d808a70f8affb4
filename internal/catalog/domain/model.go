package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultServiceSlug is assigned to projects created through an image sync
// that does not name its service.
const DefaultServiceSlug = "website-development"

// Service is a catalog entry. Slug is the stable external identifier.
type Service struct {
	ID      string `json:"id" yaml:"id" bson:"-"`
	Title   string `json:"title" yaml:"title" bson:"title"`
	Tagline string `json:"tagline" yaml:"tagline" bson:"tagline"`
	Icon    string `json:"icon" yaml:"icon" bson:"icon"`
	Slug    string `json:"slug" yaml:"slug" bson:"slug"`
}

// ProjectDocument is a project as it sits in the store. Historical imports
// used several names for the same concept, so every alias is kept and
// NormalizeProject collapses them.
type ProjectDocument struct {
	ID          Ref    `json:"id,omitempty" yaml:"id" bson:"_id,omitempty"`
	ServiceID   Ref    `json:"serviceId,omitempty" yaml:"serviceId" bson:"serviceId,omitempty"`
	ServiceSlug string `json:"serviceSlug,omitempty" yaml:"serviceSlug" bson:"serviceSlug,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category" bson:"category,omitempty"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName" bson:"serviceName,omitempty"`
	Slug        string `json:"slug,omitempty" yaml:"slug" bson:"slug,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name" bson:"name,omitempty"`

	ShortDescription string `json:"shortDescription,omitempty" yaml:"shortDescription" bson:"shortDescription,omitempty"`
	Description      string `json:"description,omitempty" yaml:"description" bson:"description,omitempty"`
	FullDescription  string `json:"fullDescription,omitempty" yaml:"fullDescription" bson:"fullDescription,omitempty"`
	Detail           string `json:"detail,omitempty" yaml:"detail" bson:"detail,omitempty"`

	ImageURL      string `json:"imageUrl,omitempty" yaml:"imageUrl" bson:"imageUrl,omitempty"`
	Image         string `json:"image,omitempty" yaml:"image" bson:"image,omitempty"`
	ImageURLSnake string `json:"image_url,omitempty" yaml:"image_url" bson:"image_url,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty" yaml:"thumbnail" bson:"thumbnail,omitempty"`
	Cover         string `json:"cover,omitempty" yaml:"cover" bson:"cover,omitempty"`

	GalleryImages      StringList `json:"galleryImages,omitempty" yaml:"galleryImages" bson:"galleryImages,omitempty"`
	Images             StringList `json:"images,omitempty" yaml:"images" bson:"images,omitempty"`
	Gallery            StringList `json:"gallery,omitempty" yaml:"gallery" bson:"gallery,omitempty"`
	GalleryImagesSnake StringList `json:"gallery_images,omitempty" yaml:"gallery_images" bson:"gallery_images,omitempty"`

	ClientName     string `json:"clientName,omitempty" yaml:"clientName" bson:"clientName,omitempty"`
	Client         string `json:"client,omitempty" yaml:"client" bson:"client,omitempty"`
	ClientIndustry string `json:"clientIndustry,omitempty" yaml:"clientIndustry" bson:"clientIndustry,omitempty"`
	ClientLocation string `json:"clientLocation,omitempty" yaml:"clientLocation" bson:"clientLocation,omitempty"`
	WebsiteURL     string `json:"websiteUrl,omitempty" yaml:"websiteUrl" bson:"websiteUrl,omitempty"`
	Duration       string `json:"duration,omitempty" yaml:"duration" bson:"duration,omitempty"`
	Timeframe      string `json:"timeframe,omitempty" yaml:"timeframe" bson:"timeframe,omitempty"`
	CompletedDate  string `json:"completedDate,omitempty" yaml:"completedDate" bson:"completedDate,omitempty"`

	Technologies StringList `json:"technologies,omitempty" yaml:"technologies" bson:"technologies,omitempty"`
	TechStack    StringList `json:"techStack,omitempty" yaml:"techStack" bson:"techStack,omitempty"`
	Tech         StringList `json:"tech,omitempty" yaml:"tech" bson:"tech,omitempty"`
	Features     StringList `json:"features,omitempty" yaml:"features" bson:"features,omitempty"`
	Outcomes     StringList `json:"outcomes,omitempty" yaml:"outcomes" bson:"outcomes,omitempty"`

	Database      *string `json:"database,omitempty" yaml:"database" bson:"database,omitempty"`
	IsMobileFirst *bool   `json:"isMobileFirst,omitempty" yaml:"isMobileFirst" bson:"isMobileFirst,omitempty"`
}

// Project is the canonical shape returned to clients.
type Project struct {
	ID               string   `json:"id"`
	ServiceID        string   `json:"serviceId"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug,omitempty"`
	ServiceSlug      string   `json:"serviceSlug,omitempty"`
	Category         string   `json:"category,omitempty"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	FullDescription  string   `json:"fullDescription"`
	ImageURL         string   `json:"imageUrl"`
	GalleryImages    []string `json:"galleryImages"`
	ClientName       string   `json:"clientName"`
	ClientIndustry   string   `json:"clientIndustry"`
	ClientLocation   string   `json:"clientLocation"`
	WebsiteURL       string   `json:"websiteUrl"`
	Duration         string   `json:"duration"`
	CompletedDate    string   `json:"completedDate"`
	Technologies     []string `json:"technologies"`
	Features         []string `json:"features"`
	Outcomes         []string `json:"outcomes"`
	Database         *string  `json:"database,omitempty"`
	IsMobileFirst    *bool    `json:"isMobileFirst,omitempty"`
}

// SyncInput is the upsert-by-slug payload.
type SyncInput struct {
	Slug        string
	Image       string
	Gallery     []string
	Name        string
	ServiceSlug string
	Category    string
}

// SyncResult reports what an upsert did.
type SyncResult struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}
