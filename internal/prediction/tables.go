package prediction

// BasePricePerSqft is the property-type-keyed fallback table used when no
// trained price model is loaded. Unknown types take the single-family rate.
func BasePricePerSqft(propertyType string) float64 {
	switch propertyType {
	case "SINGLE_FAMILY":
		return 250
	case "CONDO":
		return 300
	case "TOWNHOUSE":
		return 275
	case "MULTI_FAMILY":
		return 200
	default:
		return 250
	}
}

// StaticFeatureImportance is the fixed importance table returned by the
// predict endpoint regardless of which estimation path ran; it is not derived
// from the loaded model.
func StaticFeatureImportance() map[string]float64 {
	return map[string]float64{
		"sqft":         0.35,
		"location":     0.25,
		"bedrooms":     0.15,
		"bathrooms":    0.10,
		"property_age": 0.08,
		"lot_size":     0.07,
	}
}
