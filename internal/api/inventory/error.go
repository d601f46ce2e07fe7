package inventory

import "StokAsistan/pkg/response"

var (
	ErrCategoryNotFound = response.NewError(404, "category not found")
	ErrProductNotFound  = response.NewError(404, "product not found")
	ErrSupplierNotFound = response.NewError(404, "supplier not found")
	ErrUnitNotFound     = response.NewError(404, "unit not found")
	ErrAlreadyExists    = response.NewError(409, "record already exists")
	ErrInvalidReference = response.NewError(400, "referenced record does not exist")
	ErrInvalidBarcode   = response.NewError(400, "barcode has an invalid EAN-13 check digit")
)
