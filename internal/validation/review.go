package validation

const maxReviewBodyLen = 500

// ReviewPayload carries the submitted review fields. Rating is a pointer so a
// missing value can be told apart from zero.
type ReviewPayload struct {
	Rating *int
	Body   string
}

// ValidateReview checks a submitted review payload.
func ValidateReview(p ReviewPayload) error {
	var v violations

	if p.Rating == nil {
		v.add("rating is required")
	} else if *p.Rating < 1 || *p.Rating > 5 {
		v.add("rating must be between 1 and 5")
	}
	v.checkText("body", p.Body, true, maxReviewBodyLen)

	return v.err()
}
