package domain

import (
	"fmt"
	"strings"
)

// Resolve validates the input and fills the defaults a newly created record
// needs: a display name derived from the slug and the default service.
func (in SyncInput) Resolve() (SyncInput, error) {
	in.Slug = strings.TrimSpace(in.Slug)
	if IsUnsetSlug(in.Slug) {
		return in, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = DisplayNameFromSlug(in.Slug)
	}
	if strings.TrimSpace(in.ServiceSlug) == "" {
		in.ServiceSlug = DefaultServiceSlug
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = DefaultServiceSlug
	}
	return in, nil
}

// ApplySync writes the synced fields onto d. The canonical imageUrl and
// galleryImages are written alongside the legacy image and gallery fields so
// the newest sync always wins normalization.
func ApplySync(d *ProjectDocument, in SyncInput) {
	d.Slug = in.Slug
	d.Image = in.Image
	d.ImageURL = in.Image
	d.Gallery = in.Gallery
	d.GalleryImages = in.Gallery
	d.Name = in.Name
	d.ServiceSlug = in.ServiceSlug
	d.Category = in.Category
}

// SyncFields is ApplySync expressed as a field map, for stores that patch
// documents server-side.
func SyncFields(in SyncInput) map[string]any {
	gallery := in.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	return map[string]any{
		"slug":          in.Slug,
		"image":         in.Image,
		"imageUrl":      in.Image,
		"gallery":       gallery,
		"galleryImages": gallery,
		"name":          in.Name,
		"serviceSlug":   in.ServiceSlug,
		"category":      in.Category,
	}
}
