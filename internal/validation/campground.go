package validation

const (
	maxTitleLen         = 100
	maxLocationLen      = 200
	maxDescriptionLen   = 1000
	maxImageURLLen      = 500
	maxImageFilenameLen = 200
	maxImages           = 10
)

// ImagePayload is one submitted image reference.
type ImagePayload struct {
	URL      string
	Filename string
}

// CampgroundPayload carries the submitted campground fields. Price is a
// pointer so a missing value can be told apart from a free campground.
type CampgroundPayload struct {
	Title        string
	Price        *float64
	Location     string
	Description  string
	Images       []ImagePayload
	DeleteImages []string
}

// ValidateCampground checks a submitted campground payload and returns a
// validation error aggregating every violation, or nil.
func ValidateCampground(p CampgroundPayload) error {
	var v violations

	v.checkText("title", p.Title, true, maxTitleLen)
	if p.Price == nil {
		v.add("price is required")
	} else if *p.Price < 0 {
		v.add("price must be greater than or equal to 0")
	}
	v.checkText("location", p.Location, true, maxLocationLen)
	v.checkText("description", p.Description, true, maxDescriptionLen)

	if len(p.Images) > maxImages {
		v.add("images must contain at most 10 entries")
	}
	for _, img := range p.Images {
		if img.URL == "" {
			v.add("image url is required")
		} else if len(img.URL) > maxImageURLLen {
			v.add("image url must be at most 500 characters")
		}
		if img.Filename == "" {
			v.add("image filename is required")
		} else if len(img.Filename) > maxImageFilenameLen {
			v.add("image filename must be at most 200 characters")
		}
	}
	for _, name := range p.DeleteImages {
		if len(name) > maxImageFilenameLen {
			v.add("deleteImages entries must be at most 200 characters")
		}
	}

	return v.err()
}
