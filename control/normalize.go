package control

import "github.com/cwbudde/algo-feedback/param"

var (
	unipolar = map[param.ID]bool{
		param.LumakeyValue: true, param.VLumakeyValue: true,
		param.TemporalFilterResonance: true, param.VTemporalFilterResonance: true,
		param.SharpenAmount: true, param.VSharpenAmount: true,
		param.DelayAmount: true,
	}

	hueModulation = map[param.ID]bool{
		param.HueModulation: true, param.VHueModulation: true,
	}

	lfoAmp = map[param.ID]bool{
		param.XLFOAmp: true, param.YLFOAmp: true, param.ZLFOAmp: true, param.RotateLFOAmp: true,
	}

	lfoRate = map[param.ID]bool{
		param.XLFORate: true, param.YLFORate: true, param.ZLFORate: true, param.RotateLFORate: true,
	}

	videoShadows = func() map[param.ID]bool {
		m := make(map[param.ID]bool)
		for _, id := range []param.ID{
			param.VLumakeyValue, param.VMix, param.VHue, param.VSaturation,
			param.VBrightness, param.VTemporalFilterMix, param.VTemporalFilterResonance,
			param.VSharpenAmount, param.VXDisplace, param.VYDisplace, param.VZDisplace,
			param.VRotate, param.VHueModulation, param.VHueOffset, param.VHueLFO,
		} {
			m[id] = true
		}
		return m
	}()
)

func isVideoShadow(id param.ID) bool { return videoShadows[id] }

// Normalize converts a 7-bit controller value for id. Lumakey, resonance,
// sharpen and delay map to [0, 1], hue modulation to v/32, and the other
// continuous parameters to [-1, 1] around 63.5. ok is false for toggles and
// unknown ids.
func Normalize(id param.ID, value uint8) (norm float64, ok bool) {
	d, found := param.Lookup(id)
	if !found || d.Kind == param.KindBool {
		return 0, false
	}

	v := float64(value)
	switch {
	case unipolar[id]:
		return v / 127, true
	case hueModulation[id]:
		return v / 32, true
	case isFrequency(id):
		return 0, false
	}
	return (v - ccCentre) / ccCentre, true
}

func isFrequency(id param.ID) bool {
	return id == param.XFrequency || id == param.YFrequency || id == param.ZFrequency
}
