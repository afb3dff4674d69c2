package fakers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

type pickupCity struct {
	City    string
	State   string
	Pincode string
}

var pickupCities = []pickupCity{
	{City: "Bengaluru", State: "Karnataka", Pincode: "560001"},
	{City: "Pune", State: "Maharashtra", Pincode: "411001"},
	{City: "New Delhi", State: "Delhi", Pincode: "110001"},
	{City: "Chennai", State: "Tamil Nadu", Pincode: "600001"},
	{City: "Jaipur", State: "Rajasthan", Pincode: "302001"},
}

func fakePhone() string {
	return fmt.Sprintf("9%09d", rand.Intn(1_000_000_000))
}

// VendorFaker builds an approved vendor with a pickup address already set.
// The pickup location still has to be registered with the aggregator before
// shipments can be created for it.
func VendorFaker() *models.Vendor {
	id := uuid.New().String()
	city := pickupCities[rand.Intn(len(pickupCities))]
	name := faker.LastName() + " Traders"
	now := time.Now()

	return &models.Vendor{
		ID:           id,
		UserID:       uuid.New().String(),
		BusinessName: name,
		Email:        faker.Email(),
		Phone:        fakePhone(),
		IsApproved:   true,
		PickupAddress: models.Address{
			Name:     name,
			Phone:    fakePhone(),
			Address1: fmt.Sprintf("%d %s Road", rand.Intn(200)+1, faker.LastName()),
			City:     city.City,
			State:    city.State,
			Country:  "India",
			Pincode:  city.Pincode,
		},
		PickupSetAt:    &now,
		PickupLocation: "vendor-" + id[:8],
	}
}
