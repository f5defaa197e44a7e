package domain

// Review is a testimonial record. Image holds the base64 text of the
// uploaded photo; nil means "no photo", which is not the same as "".
type Review struct {
	ID          string
	Text        string
	Name        string
	Designation string
	Image       *string
}

// ReviewFields is the full field set written on create.
type ReviewFields struct {
	Text        string
	Name        string
	Designation string
	Image       *string
}

// ReviewPatch carries the fields of a partial update; nil fields are left as they are.
type ReviewPatch struct {
	Text        *string
	Name        *string
	Designation *string
	Image       *string
}

func (p ReviewPatch) Empty() bool {
	return p.Text == nil && p.Name == nil && p.Designation == nil && p.Image == nil
}

// UpdateResult mirrors the matched/modified counters of a document store update.
type UpdateResult struct {
	Matched  int64
	Modified int64
}
