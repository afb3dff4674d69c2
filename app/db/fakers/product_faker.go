package fakers

import (
	"math/rand"
	"strings"

	"github.com/bbmart/marketplace/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

func ProductFaker(vendor *models.Vendor) *models.Product {
	name := faker.Word() + " " + faker.Word()
	name = strings.ToUpper(name[:1]) + name[1:]
	suffix := uuid.NewString()[:6]

	return &models.Product{
		VendorID:     vendor.ID,
		Name:         name,
		Slug:         slug.Make(name + "-" + suffix),
		Sku:          strings.ToUpper(slug.Make(name)) + "-" + suffix,
		Description:  faker.Paragraph(),
		BasePrice:    fakePrice(),
		ProfitMargin: decimal.NewFromInt(int64(rand.Intn(20))),
		Discount:     decimal.NewFromInt(int64(rand.Intn(3) * 5)),
		Stock:        rand.Intn(50) + 1,
		IsPublished:  true,
		Weight:       decimal.NewFromFloat(0.1 + rand.Float64()*4.9).Round(3),
		Length:       decimal.NewFromInt(int64(rand.Intn(40) + 10)),
		Breadth:      decimal.NewFromInt(int64(rand.Intn(30) + 10)),
		Height:       decimal.NewFromInt(int64(rand.Intn(20) + 5)),
	}
}

func fakePrice() decimal.Decimal {
	return decimal.NewFromFloat(50 + rand.Float64()*4950).Round(2)
}
