package model

import "errors"

var (
	ErrValidation       = errors.New("validation error")        // 400
	ErrInvalidStatus    = errors.New("invalid status")          // 400
	ErrUnknownKind      = errors.New("invalid asset type")      // 400
	ErrAssetNotFound    = errors.New("asset not found")         // 404
	ErrEmployeeNotFound = errors.New("employee not found")      // 404
	ErrConflict         = errors.New("concurrent modification") // 409
	ErrStoreUnavailable = errors.New("store unavailable")       // 503
)

// IsValidation reports whether err must be answered as a client error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrUnknownKind)
}

// IsNotFound reports whether err names a missing asset or employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound) || errors.Is(err, ErrEmployeeNotFound)
}
