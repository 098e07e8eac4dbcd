package splits

// ABConfig describes a two-variant (boolean) split: a true branch with a
// configurable label and a false branch labeled literally "false".
//
// Visitor.AB uses it to drive a Vary call with exactly one When (the true
// branch) and one Default (the false branch).
type ABConfig struct {
	splitName   string
	trueVariant string
}

// NewABConfig creates an AB configuration for a split.
//
// Parameters:
//   - splitName: Name of the two-variant split
//   - trueVariant: Custom label for the true branch ("" defaults to "true")
//
// Returns:
//   - ABConfig: The boolean split description
func NewABConfig(splitName, trueVariant string) ABConfig {
	if trueVariant == "" {
		trueVariant = "true"
	}

	return ABConfig{
		splitName:   splitName,
		trueVariant: trueVariant,
	}
}

// SplitName returns the split this configuration describes.
func (ab ABConfig) SplitName() string {
	return ab.splitName
}

// TrueVariant returns the label of the true branch.
func (ab ABConfig) TrueVariant() string {
	return ab.trueVariant
}

// FalseVariant returns the label of the false branch, always "false".
func (ab ABConfig) FalseVariant() string {
	return "false"
}

// Variants returns the two-entry variant map for the split.
//
// Returns:
//   - map[bool]string: {true: trueVariant, false: "false"}
func (ab ABConfig) Variants() map[bool]string {
	return map[bool]string{
		true:  ab.trueVariant,
		false: ab.FalseVariant(),
	}
}
