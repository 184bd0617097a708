package domain

import "errors"

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrNoInsertedID      = errors.New("storage returned no id for inserted listing")
	ErrKindImmutable     = errors.New("listing kind cannot be changed after creation")
	ErrTranslationFailed = errors.New("translation request failed")
	ErrTransactionFailed = errors.New("listing transaction failed")
)
