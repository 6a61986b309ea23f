package category

import "errors"

var (
	ErrCategoryExists      = errors.New("category with this name already exists")
	ErrInvalidCategoryName = errors.New("category name is required")
)
