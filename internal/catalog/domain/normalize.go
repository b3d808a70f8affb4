package domain

// NormalizeProject collapses the aliased fields of a stored document into the
// canonical Project shape. Every endpoint that returns a project goes through
// here, fallback records included.
//
// Precedence:
//
//	gallery:      galleryImages, images, gallery, gallery_images (first non-empty)
//	imageUrl:     imageUrl, image, image_url, thumbnail, cover, gallery[0]
//	description:  description, fullDescription, detail
//	technologies: technologies, techStack, tech (first non-empty)
func NormalizeProject(d ProjectDocument) Project {
	gallery := firstList(d.GalleryImages, d.Images, d.Gallery, d.GalleryImagesSnake)

	cover := firstString(d.ImageURL, d.Image, d.ImageURLSnake, d.Thumbnail, d.Cover)
	if cover == "" && len(gallery) > 0 {
		cover = gallery[0]
	}

	return Project{
		ID:               d.ID.String(),
		ServiceID:        d.ServiceID.String(),
		Name:             d.Name,
		Slug:             d.Slug,
		ServiceSlug:      d.ServiceSlug,
		Category:         d.Category,
		ShortDescription: d.ShortDescription,
		Description:      firstString(d.Description, d.FullDescription, d.Detail),
		FullDescription:  firstString(d.FullDescription, d.Description, d.Detail),
		ImageURL:         cover,
		GalleryImages:    gallery,
		ClientName:       firstString(d.ClientName, d.Client),
		ClientIndustry:   d.ClientIndustry,
		ClientLocation:   d.ClientLocation,
		WebsiteURL:       d.WebsiteURL,
		Duration:         firstString(d.Duration, d.Timeframe),
		CompletedDate:    d.CompletedDate,
		Technologies:     firstList(d.Technologies, d.TechStack, d.Tech),
		Features:         nonNil(d.Features),
		Outcomes:         nonNil(d.Outcomes),
		Database:         d.Database,
		IsMobileFirst:    d.IsMobileFirst,
	}
}

// NormalizeProjects maps a batch; the result is never nil.
func NormalizeProjects(docs []ProjectDocument) []Project {
	out := make([]Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, NormalizeProject(d))
	}
	return out
}

func firstString(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func firstList(candidates ...[]string) []string {
	for _, c := range candidates {
		if len(c) > 0 {
			out := make([]string, len(c))
			copy(out, c)
			return out
		}
	}
	return []string{}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
