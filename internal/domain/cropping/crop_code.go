package cropping

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m77ag/backend/internal/domain/shared"
)

var cropCodePattern = regexp.MustCompile(`^(.+?)(\d{2})$`)

// CropCode identifies a crop and season, e.g. "CORN26" or "DOUBLE-CROP-BEANS26"
type CropCode struct {
	Raw      string
	CropName string
	Year     int
}

// ParseCropCode splits a crop code into crop name and year.
// The last two digits are the year in the 2000s; hyphens in the
// name become spaces.
func ParseCropCode(code string) (CropCode, error) {
	code = strings.TrimSpace(code)
	m := cropCodePattern.FindStringSubmatch(code)
	if m == nil {
		return CropCode{}, shared.NewValidationError("crop code %q must end with a two-digit year", code)
	}
	yy, err := strconv.Atoi(m[2])
	if err != nil {
		return CropCode{}, shared.NewValidationError("crop code %q has an invalid year", code)
	}
	name := strings.TrimSpace(strings.ReplaceAll(m[1], "-", " "))
	if name == "" {
		return CropCode{}, shared.NewValidationError("crop code %q has no crop name", code)
	}
	return CropCode{Raw: code, CropName: name, Year: 2000 + yy}, nil
}

// Matches reports whether a field's crop name for the code's year matches, case-insensitively
func (c CropCode) Matches(cropName string) bool {
	return strings.EqualFold(strings.TrimSpace(cropName), c.CropName)
}
