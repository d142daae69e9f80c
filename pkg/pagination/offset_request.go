package pagination

// OffsetRequest is a page/size pagination request bound from query parameters.
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"size" validate:"min=1,max=100"`
}

// Normalize clamps Page and Size into their allowed ranges.
func (r *OffsetRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}

// Offset is the zero based index of the first item on the page.
func (r OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Size
}
