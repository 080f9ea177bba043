package handler

import (
	producthandler "warehouse/internal/product/handler"
	"warehouse/internal/supplier/models"
)

type SupplierDetailsResponse struct {
	*models.Supplier
	Products []producthandler.ProductResponse `json:"products"`
}

func FromDetails(d *models.Details) SupplierDetailsResponse {
	return SupplierDetailsResponse{
		Supplier: d.Supplier,
		Products: producthandler.FromProducts(d.Products),
	}
}
