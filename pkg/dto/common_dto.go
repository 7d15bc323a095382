package dto

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type PageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  pages,
		TotalItems:  total,
		Limit:       limit,
	}
}
