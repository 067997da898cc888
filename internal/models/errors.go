package models

import "errors"

// Domain errors surfaced by the service layer. The HTTP layer maps each
// of these to a status code; anything not in this list is treated as an
// internal persistence failure.
var (
	// ErrUnknownIdentity is returned when a registration carries an
	// id number absent from the allow-list.
	ErrUnknownIdentity = errors.New("unknown id number")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrInvalidCredentials is returned when no account matches the
	// identifier or the password does not verify.
	ErrInvalidCredentials = errors.New("invalid identifier or password")
	// ErrUnauthenticated is returned when a privileged operation is
	// attempted without a valid session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccountNotFound is returned when a user lookup resolves nothing.
	ErrAccountNotFound = errors.New("user not found")
	// ErrProductNotFound is returned when a product lookup resolves nothing.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidStatus is returned when a product status is outside
	// the status enumeration.
	ErrInvalidStatus = errors.New("invalid product status")
	// ErrInvalidCategory is returned when a product category is outside
	// the category enumeration.
	ErrInvalidCategory = errors.New("invalid product category")
	// ErrInvalidPrice is returned when a price is negative or not finite.
	ErrInvalidPrice = errors.New("price must be a non-negative number")
	// ErrMalformedImage is returned when image text is not valid base64.
	ErrMalformedImage = errors.New("malformed image data")
	// ErrInvalidContentType is returned when the image content type is
	// not an accepted image format.
	ErrInvalidContentType = errors.New("unsupported image content type")
)
