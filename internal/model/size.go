package model

// LogoSize represents the square PNG sizes the download proxy and the export
// command can produce.
// Go doesn't have enums — we use typed constants with explicit values.
type LogoSize string

const (
	SizeXS LogoSize = "xs" // 16px
	SizeS  LogoSize = "s"  // 32px
	SizeM  LogoSize = "m"  // 64px
	SizeL  LogoSize = "l"  // 128px
	SizeXL LogoSize = "xl" // 256px
)

// SizePixels maps each LogoSize to its pixel dimension.
var SizePixels = map[LogoSize]int{
	SizeXS: 16,
	SizeS:  32,
	SizeM:  64,
	SizeL:  128,
	SizeXL: 256,
}

// AllSizes is the ordered list of all sizes for iteration.
var AllSizes = []LogoSize{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// ValidSize checks if a string is a valid LogoSize.
func ValidSize(s string) bool {
	_, ok := SizePixels[LogoSize(s)]
	return ok
}
