package scene

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor reads "#rrggbb", "#rgb" or an SVG/CSS color name into RGB
// components in [0,1].
func ParseColor(s string) ([3]float32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return [3]float32{}, fmt.Errorf("color %q: want #rrggbb or #rgb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return [3]float32{}, fmt.Errorf("color %q: %w", s, err)
		}
		return [3]float32{
			float32(v>>16&0xff) / 255,
			float32(v>>8&0xff) / 255,
			float32(v&0xff) / 255,
		}, nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return [3]float32{}, fmt.Errorf("unknown color name %q", s)
	}
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}, nil
}
