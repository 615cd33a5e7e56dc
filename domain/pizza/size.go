package pizza

import "strings"

// Size Pizza size
type Size string

const (
	SizeSmall      Size = "SMALL"
	SizeMedium     Size = "MEDIUM"
	SizeLarge      Size = "LARGE"
	SizeExtraLarge Size = "EXTRA_LARGE"
)

var sizeCentimeters = map[Size]int{
	SizeSmall:      30,
	SizeMedium:     40,
	SizeLarge:      50,
	SizeExtraLarge: 60,
}

// ParseSize accepts any letter case.
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToUpper(strings.TrimSpace(s)))
	if !size.IsValid() {
		return "", NewValidationError("size", "unknown pizza size: "+s)
	}
	return size, nil
}

func (s Size) IsValid() bool {
	_, ok := sizeCentimeters[s]
	return ok
}

// Centimeters returns the diameter, 0 for an unknown size.
func (s Size) Centimeters() int {
	return sizeCentimeters[s]
}

func (s Size) String() string {
	return string(s)
}
