package training

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// PriceFeatureNames is the ordered feature layout shared by the trainer and
// the serving layer. Vectors passed to a fitted price model must follow it.
var PriceFeatureNames = []string{
	"sqft",
	"bedrooms",
	"bathrooms",
	"property_age",
	"lot_size",
	"property_type",
	"latitude",
	"longitude",
}

const defaultYearBuilt = 1990

// EncodePropertyType maps a property-type label to its ordinal feature value.
// Unknown labels fold into SINGLE_FAMILY.
func EncodePropertyType(propertyType string) int {
	switch propertyType {
	case "SINGLE_FAMILY":
		return 1
	case "CONDO":
		return 2
	case "TOWNHOUSE":
		return 3
	case "MULTI_FAMILY":
		return 4
	case "LAND":
		return 5
	case "COMMERCIAL":
		return 6
	default:
		return 1
	}
}

// PropertyRow is one training example from the properties dataset.
type PropertyRow struct {
	Sqft         int
	Bedrooms     int
	Bathrooms    float64
	YearBuilt    *int
	LotSize      *int
	Stories      *int
	Garage       *int
	PropertyType string
	Latitude     float64
	Longitude    float64
	Price        int
}

// FillDefaults applies the dataset's missing-value policy: year built 1990,
// lot size twice the living area, one story, no garage.
func (r *PropertyRow) FillDefaults() {
	if r.YearBuilt == nil {
		year := defaultYearBuilt
		r.YearBuilt = &year
	}
	if r.LotSize == nil {
		lot := r.Sqft * 2
		r.LotSize = &lot
	}
	if r.Stories == nil {
		stories := 1
		r.Stories = &stories
	}
	if r.Garage == nil {
		garage := 0
		r.Garage = &garage
	}
}

// Vector engineers the row into the PriceFeatureNames layout relative to the
// given reference year.
func (r *PropertyRow) Vector(referenceYear int) []float64 {
	row := *r
	row.FillDefaults()

	return []float64{
		float64(row.Sqft),
		float64(row.Bedrooms),
		row.Bathrooms,
		float64(referenceYear - *row.YearBuilt),
		float64(*row.LotSize),
		float64(EncodePropertyType(row.PropertyType)),
		row.Latitude,
		row.Longitude,
	}
}

// StandardScaler centers and scales each feature column. Fitted means and
// deviations are part of the serialized artifact.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func (s *StandardScaler) Fit(features [][]float64) error {
	if len(features) == 0 {
		return errors.New("cannot fit scaler on empty matrix")
	}

	columns := len(features[0])
	s.Mean = make([]float64, columns)
	s.Std = make([]float64, columns)

	column := make([]float64, len(features))
	for j := 0; j < columns; j++ {
		for i, row := range features {
			column[i] = row[j]
		}
		s.Mean[j] = stat.Mean(column, nil)
		s.Std[j] = stat.StdDev(column, nil)
		// Constant columns scale to zero, not NaN.
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, errors.New("row length does not match fitted scaler")
	}
	scaled := make([]float64, len(row))
	for j, v := range row {
		scaled[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return scaled, nil
}

func (s *StandardScaler) Transform(features [][]float64) ([][]float64, error) {
	scaled := make([][]float64, len(features))
	for i, row := range features {
		transformed, err := s.TransformRow(row)
		if err != nil {
			return nil, err
		}
		scaled[i] = transformed
	}
	return scaled, nil
}
