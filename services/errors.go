package services

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized access. User not validated")
	ErrValidation   = errors.New("invalid meal payload")
	ErrMealNotFound = errors.New("meal not found")
)
