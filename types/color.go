package types

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultRoleColor is used when a configured role color cannot be parsed.
const DefaultRoleColor = "blue"

// RoleColor is a role color given as "#rgb", "#rrggbb" or an SVG color name.
type RoleColor string

// Int converts the color to the integer form Discord uses. Unknown values
// fall back to DefaultRoleColor.
func (rc RoleColor) Int() int {
	c, err := ParseHexColor(string(rc))
	if err != nil {
		nColor, ok := colornames.Map[strings.ToLower(string(rc))]
		if !ok {
			nColor = colornames.Map[DefaultRoleColor]
		}
		c = nColor
	}
	return (int(c.R) << 16) | (int(c.G) << 8) | int(c.B)
}

func ParseHexColor(s string) (c color.RGBA, err error) {
	c.A = 0xff
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid length, must be 7 or 4")
	}
	return
}
