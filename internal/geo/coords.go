// Package geo holds the fixed city-to-coordinate table used by the city
// sales view. Cities missing from the table cannot be plotted and are
// dropped from the geographic view only; they still count toward totals.
package geo

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var cityPoints = map[string]Point{
	"北京": {39.9042, 116.4074},
	"天津": {39.3434, 117.3616},
	"上海": {31.2304, 121.4737},
	"广州": {23.1291, 113.2644},
	"深圳": {22.5431, 114.0579},
	"杭州": {30.2741, 120.1551},
	"南京": {32.0603, 118.7969},
	"成都": {30.5728, 104.0668},
	"重庆": {29.5630, 106.5516},
	"武汉": {30.5928, 114.3055},
	"西安": {34.3416, 108.9398},
}

// Lookup returns the coordinates of a known city.
func Lookup(city string) (Point, bool) {
	p, ok := cityPoints[city]
	return p, ok
}
