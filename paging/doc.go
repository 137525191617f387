// Package paging normalizes page/pageSize/q query parameters.
//
//	var p paging.Params
//	_ = c.ShouldBindQuery(&p)
//	p = p.Normalize() // page 1, pageSize 10 by default, at most 100
package paging
