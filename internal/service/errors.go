package service

import "errors"

var (
	ErrEmptyOrder       = errors.New("sale has no products")
	ErrProductNotFound  = errors.New("product not found")
	ErrOutOfStock       = errors.New("product out of stock")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSaleNotFound     = errors.New("sale not found")

	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateDNI     = errors.New("dni already registered")
	ErrProductInUse     = errors.New("product is referenced by a sale")
	ErrCustomerHasSales = errors.New("customer has sales")
	ErrDuplicateRequest = errors.New("duplicate request")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
