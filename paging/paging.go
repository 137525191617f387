package paging

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds page based pagination parameters with an optional search term.
type Params struct {
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
	Q        string `form:"q" json:"q"`
}

// Normalize applies defaults and caps PageSize at MaxPageSize.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Q = strings.TrimSpace(p.Q)
	return p
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// LikePattern returns a lowercase LIKE pattern matching Q anywhere, with
// LIKE wildcards escaped by a backslash.
func (p Params) LikePattern() string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(p.Q)) + "%"
}

// Result holds one page of items and the total number of matches.
type Result[T any] struct {
	Params
	Total int `json:"total"`
	Items []T `json:"items"`
}

// NewResult builds a Result, never returning nil Items.
func NewResult[T any](p Params, total int, items []T) *Result[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Result[T]{Params: p, Total: total, Items: items}
}
