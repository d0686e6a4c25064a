package navfield

// ApplyPoleSign coerces magnitude with ToFloat and negates it for the S and W
// hemispheres. It is used for values that are already decimal, such as
// magnetic variation.
func ApplyPoleSign[T Numeric](magnitude T, pole string) float64 {
	return signed(ToFloat(magnitude), pole)
}
