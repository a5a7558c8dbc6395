package query

import "errors"

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrSaleNotFound   = errors.New("sale not found")
)
