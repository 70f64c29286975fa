package models

import (
	"strings"

	"github.com/gosimple/slug"
)

// NormalizeSKU turns free text like "acc sav 001" into "ACC-SAV-001".
// It returns "" when nothing usable is left.
func NormalizeSKU(s string) string {
	return strings.ToUpper(slug.Make(s))
}
