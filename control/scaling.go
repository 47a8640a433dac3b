package control

import "github.com/cwbudde/algo-feedback/param"

// Group is a set of parameters that share scaling toggles.
type Group int

const (
	GroupX Group = iota
	GroupY
	GroupZ
	GroupRotate
	GroupHueModulation
	GroupHueOffset
	GroupHueLFO
	numGroups
)

// Scaling holds the ×2, ×5 and ×10 toggles of one group.
type Scaling struct {
	Times2  bool
	Times5  bool
	Times10 bool
}

// Factor returns the largest active multiplier, or 1.
func (sc Scaling) Factor() float64 {
	switch {
	case sc.Times10:
		return 10
	case sc.Times5:
		return 5
	case sc.Times2:
		return 2
	}
	return 1
}

func (sc *Scaling) set(factor int, on bool) {
	switch factor {
	case 2:
		sc.Times2 = on
	case 5:
		sc.Times5 = on
	case 10:
		sc.Times10 = on
	}
}

// Scaling toggles sit in three rows of seven controllers: ×2 at 32..38,
// ×5 at 48..54 and ×10 at 64..70, in Group order.
var scalingRows = [...]struct {
	first  uint8
	factor int
}{
	{32, 2},
	{48, 5},
	{64, 10},
}

func scalingCC(control uint8) (Group, int, bool) {
	for _, row := range scalingRows {
		if control >= row.first && control < row.first+uint8(numGroups) {
			return Group(control - row.first), row.factor, true
		}
	}
	return 0, 0, false
}

var groupOf = map[param.ID]Group{
	param.XDisplace: GroupX, param.VXDisplace: GroupX, param.XLFOAmp: GroupX, param.XLFORate: GroupX,
	param.YDisplace: GroupY, param.VYDisplace: GroupY, param.YLFOAmp: GroupY, param.YLFORate: GroupY,
	param.ZDisplace: GroupZ, param.VZDisplace: GroupZ, param.ZLFOAmp: GroupZ, param.ZLFORate: GroupZ,
	param.Rotate: GroupRotate, param.VRotate: GroupRotate, param.RotateLFOAmp: GroupRotate, param.RotateLFORate: GroupRotate,

	param.HueModulation: GroupHueModulation, param.VHueModulation: GroupHueModulation,
	param.HueOffset: GroupHueOffset, param.VHueOffset: GroupHueOffset,
	param.HueLFO: GroupHueLFO, param.VHueLFO: GroupHueLFO,
}
