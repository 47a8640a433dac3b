package param

// ID is a stable parameter identifier.
type ID string

// Toggles.
const (
	HueInvert         ID = "hueInvert"
	SaturationInvert  ID = "saturationInvert"
	BrightnessInvert  ID = "brightnessInvert"
	HorizontalMirror  ID = "horizontalMirror"
	VerticalMirror    ID = "verticalMirror"
	LumakeyInvert     ID = "lumakeyInvert"
	ToroidEnabled     ID = "toroidEnabled"
	MirrorModeEnabled ID = "mirrorModeEnabled"
	WetModeEnabled    ID = "wetModeEnabled"
	VideoReactiveMode ID = "videoReactiveMode"
	LFOAmpMode        ID = "lfoAmpMode"
	LFORateMode       ID = "lfoRateMode"
)

// Automatable effect parameters.
const (
	LumakeyValue            ID = "lumakeyValue"
	Mix                     ID = "mix"
	Hue                     ID = "hue"
	Saturation              ID = "saturation"
	Brightness              ID = "brightness"
	TemporalFilterMix       ID = "temporalFilterMix"
	TemporalFilterResonance ID = "temporalFilterResonance"
	SharpenAmount           ID = "sharpenAmount"
	XDisplace               ID = "xDisplace"
	YDisplace               ID = "yDisplace"
	ZDisplace               ID = "zDisplace"
	Rotate                  ID = "rotate"
	HueModulation           ID = "hueModulation"
	HueOffset               ID = "hueOffset"
	HueLFO                  ID = "hueLFO"
	DelayAmount             ID = "delayAmount"
)

// Parameters without an automation track.
const (
	ZFrequency ID = "zFrequency"
	XFrequency ID = "xFrequency"
	YFrequency ID = "yFrequency"

	XLFOAmp       ID = "xLfoAmp"
	XLFORate      ID = "xLfoRate"
	YLFOAmp       ID = "yLfoAmp"
	YLFORate      ID = "yLfoRate"
	ZLFOAmp       ID = "zLfoAmp"
	ZLFORate      ID = "zLfoRate"
	RotateLFOAmp  ID = "rotateLfoAmp"
	RotateLFORate ID = "rotateLfoRate"

	VLumakeyValue            ID = "vLumakeyValue"
	VMix                     ID = "vMix"
	VHue                     ID = "vHue"
	VSaturation              ID = "vSaturation"
	VBrightness              ID = "vBrightness"
	VTemporalFilterMix       ID = "vTemporalFilterMix"
	VTemporalFilterResonance ID = "vTemporalFilterResonance"
	VSharpenAmount           ID = "vSharpenAmount"
	VXDisplace               ID = "vXDisplace"
	VYDisplace               ID = "vYDisplace"
	VZDisplace               ID = "vZDisplace"
	VRotate                  ID = "vRotate"
	VHueModulation           ID = "vHueModulation"
	VHueOffset               ID = "vHueOffset"
	VHueLFO                  ID = "vHueLFO"
)

// Kind is the value type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
)

// Composition selects how a parameter combines its sources.
type Composition int

const (
	// Additive: base + audioOffset + automation.
	Additive Composition = iota
	// Multiplicative: (base + audioOffset) * (1 + automation).
	Multiplicative
	// InvertedMultiplicative: (base + audioOffset) * (1 - automation).
	InvertedMultiplicative
)

// LFOMode selects how a live LFO value is folded into the composed value.
type LFOMode int

const (
	LFONone LFOMode = iota
	// LFOAdd adds the LFO value.
	LFOAdd
	// LFOScale multiplies by (1 + lfo).
	LFOScale
)

// NoTrack marks a parameter without an automation track.
const NoTrack = -1

// ReservedTrack is the automation track kept free for future parameters.
const ReservedTrack = 16

// Def describes one catalog entry.
type Def struct {
	ID          ID
	Kind        Kind
	Default     float64
	Composition Composition
	Track       int
	LFO         LFOMode
}

// Automatable reports whether the parameter has an automation track.
func (d Def) Automatable() bool { return d.Track != NoTrack }

func toggle(id ID, def bool) Def {
	v := 0.0
	if def {
		v = 1
	}
	return Def{ID: id, Kind: KindBool, Default: v, Track: NoTrack}
}

func plain(id ID, def float64) Def {
	return Def{ID: id, Kind: KindFloat, Default: def, Track: NoTrack}
}

var catalog = []Def{
	toggle(HueInvert, false),
	toggle(SaturationInvert, false),
	toggle(BrightnessInvert, false),
	toggle(HorizontalMirror, false),
	toggle(VerticalMirror, false),
	toggle(LumakeyInvert, false),
	toggle(ToroidEnabled, false),
	toggle(MirrorModeEnabled, false),
	toggle(WetModeEnabled, true),
	toggle(VideoReactiveMode, false),
	toggle(LFOAmpMode, false),
	toggle(LFORateMode, false),

	{ID: LumakeyValue, Track: 0},
	{ID: Mix, Track: 1},
	{ID: Hue, Default: 1, Composition: Multiplicative, Track: 2},
	{ID: Saturation, Default: 1, Composition: Multiplicative, Track: 3},
	{ID: Brightness, Default: 1, Composition: Multiplicative, Track: 4},
	{ID: TemporalFilterMix, Track: 5},
	{ID: TemporalFilterResonance, Track: 6},
	{ID: SharpenAmount, Track: 7},
	{ID: XDisplace, Track: 8, LFO: LFOAdd},
	{ID: YDisplace, Track: 9, LFO: LFOAdd},
	{ID: ZDisplace, Default: 1, Composition: Multiplicative, Track: 10, LFO: LFOScale},
	{ID: Rotate, Track: 11, LFO: LFOAdd},
	// Inverted relative to hue/saturation/brightness/zDisplace. Kept as
	// found; needs confirmation from whoever owns the hue-modulation look.
	{ID: HueModulation, Default: 1, Composition: InvertedMultiplicative, Track: 12},
	{ID: HueOffset, Track: 13},
	{ID: HueLFO, Track: 14},
	{ID: DelayAmount, Kind: KindInt, Track: 15},

	plain(ZFrequency, 0.03),
	plain(XFrequency, 0.015),
	plain(YFrequency, 0.02),

	plain(XLFOAmp, 0),
	plain(XLFORate, 0),
	plain(YLFOAmp, 0),
	plain(YLFORate, 0),
	plain(ZLFOAmp, 0),
	plain(ZLFORate, 0),
	plain(RotateLFOAmp, 0),
	plain(RotateLFORate, 0),

	plain(VLumakeyValue, 0),
	plain(VMix, 0),
	plain(VHue, 0),
	plain(VSaturation, 0),
	plain(VBrightness, 0),
	plain(VTemporalFilterMix, 0),
	plain(VTemporalFilterResonance, 0),
	plain(VSharpenAmount, 0),
	plain(VXDisplace, 0),
	plain(VYDisplace, 0),
	plain(VZDisplace, 0),
	plain(VRotate, 0),
	plain(VHueModulation, 0),
	plain(VHueOffset, 0),
	plain(VHueLFO, 0),
}

var byID = func() map[ID]int {
	m := make(map[ID]int, len(catalog))
	for i, d := range catalog {
		m[d.ID] = i
	}
	return m
}()

// aliases maps the snake_case spellings accepted in older mapping tables
// to catalog ids.
var aliases = map[ID]ID{
	"lumakey_value":             LumakeyValue,
	"temporal_filter_mix":       TemporalFilterMix,
	"temporal_filter_resonance": TemporalFilterResonance,
	"sharpen_amount":            SharpenAmount,
	"x_displace":                XDisplace,
	"y_displace":                YDisplace,
	"z_displace":                ZDisplace,
	"x_frequency":               XFrequency,
	"y_frequency":               YFrequency,
	"z_frequency":               ZFrequency,
	"hue_modulation":            HueModulation,
	"hue_offset":                HueOffset,
	"hue_lfo":                   HueLFO,
	"delay_amount":              DelayAmount,
}

// Lookup returns the catalog entry for id. Snake_case aliases resolve to
// their catalog entry; the returned Def carries the catalog id.
func Lookup(id ID) (Def, bool) {
	if canon, ok := aliases[id]; ok {
		id = canon
	}
	i, ok := byID[id]
	if !ok {
		return Def{}, false
	}
	return catalog[i], true
}

// Catalog returns every catalog entry in declaration order.
func Catalog() []Def {
	return append([]Def(nil), catalog...)
}

// TrackOf returns the automation track of id, or NoTrack.
func TrackOf(id ID) int {
	d, ok := Lookup(id)
	if !ok {
		return NoTrack
	}
	return d.Track
}
