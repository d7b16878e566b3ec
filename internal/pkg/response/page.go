package response

// Page wraps list payloads with pagination metadata inside the data field.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPage builds a Page, normalizing a nil slice so JSON renders [] not null.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
