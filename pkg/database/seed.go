package database

import (
	"github.com/biodoia/goestate/pkg/models"
	"gorm.io/datatypes"
)

// MiamiProperties restituisce il catalogo mock usato in data mode "mock"
// e come seed iniziale della tabella properties
func MiamiProperties() []models.Property {
	return []models.Property{
		{
			FormattedAddress: "15741 Sw 137th Ave, Apt 204, Miami, FL 33177",
			City:             "Miami",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         3,
			Bathrooms:        2,
			SquareFootage:    1120,
			YearBuilt:        2001,
			Price:            2450,
			Amenities:        datatypes.JSON(`["parking","balcony"]`),
		},
		{
			FormattedAddress: "1050 Brickell Ave, Apt 3504, Miami, FL 33131",
			City:             "Miami",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         3,
			Bathrooms:        3,
			SquareFootage:    2238,
			YearBuilt:        2008,
			Price:            12000,
			Amenities:        datatypes.JSON(`["pool","gym","parking","balcony"]`),
		},
		{
			FormattedAddress: "4301 Nw 8th Ter, Apt 44, Miami, FL 33126",
			City:             "Miami",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         2,
			Bathrooms:        1,
			SquareFootage:    21286,
			YearBuilt:        1955,
			Price:            2300,
			Amenities:        datatypes.JSON(`["parking"]`),
		},
		{
			FormattedAddress: "2000 Ocean Dr, Apt 1201, Miami Beach, FL 33139",
			City:             "Miami Beach",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         4,
			Bathrooms:        3,
			SquareFootage:    1800,
			YearBuilt:        2015,
			Price:            8500,
			Amenities:        datatypes.JSON(`["pool","gym","ocean","waterfront","balcony"]`),
		},
		{
			FormattedAddress: "1000 S Pointe Dr, Apt 2502, Miami Beach, FL 33139",
			City:             "Miami Beach",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         2,
			Bathrooms:        2,
			SquareFootage:    1500,
			YearBuilt:        2020,
			Price:            5200,
			Amenities:        datatypes.JSON(`["pool","gym","waterfront","parking"]`),
		},
		{
			FormattedAddress: "850 N Miami Ave, Apt W702, Miami, FL 33136",
			City:             "Miami",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         1,
			Bathrooms:        1,
			SquareFootage:    750,
			YearBuilt:        2018,
			Price:            3200,
			Amenities:        datatypes.JSON(`["gym","parking"]`),
		},
		{
			FormattedAddress: "3301 Ne 1st Ave, Apt H1205, Miami, FL 33137",
			City:             "Miami",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         3,
			Bathrooms:        2,
			SquareFootage:    1400,
			YearBuilt:        2019,
			Price:            4800,
			Amenities:        datatypes.JSON(`["pool","gym","balcony"]`),
		},
		{
			FormattedAddress: "500 Brickell Ave, Apt 4109, Miami, FL 33131",
			City:             "Miami",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         2,
			Bathrooms:        2,
			SquareFootage:    1100,
			YearBuilt:        2016,
			Price:            3800,
			Amenities:        datatypes.JSON(`["pool","parking","balcony"]`),
		},
		{
			FormattedAddress: "1800 Club Dr, Apt 706, Miami Beach, FL 33141",
			City:             "Miami Beach",
			State:            "FL",
			PropertyType:     "Apartment",
			Bedrooms:         1,
			Bathrooms:        1,
			SquareFootage:    850,
			YearBuilt:        2017,
			Price:            2800,
			Amenities:        datatypes.JSON(`["pool","garden"]`),
		},
	}
}
