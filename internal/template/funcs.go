package template

import "strconv"

// coord formats a latitude or longitude with six decimals
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
