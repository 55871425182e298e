package cutlang

import (
	"math/rand"
	"strconv"
	"strings"
)

// MediaInfo describes the open media at the active timebase.
type MediaInfo struct {
	FrameCount   int
	AudioStreams int
	VideoWidth   int
}

type MotionOptions struct {
	Blur  int
	Width int
}

// Analyzer is the external analysis collaborator: it turns raw samples and
// pixels into continuous per-frame levels. Calls block until the analysis
// finishes; there is no cancellation path.
type Analyzer interface {
	Info() MediaInfo
	AudioLevels(stream int) ([]float64, error)
	MotionLevels(opts MotionOptions) ([]float64, error)
	PixeldiffLevels() ([]float64, error)
	RandomLevels(seed int64) ([]float64, error)
}

// EditBridge resolves array-literal descriptors like audio:threshold=0.04
// into boolean arrays by calling the analyzer and binarizing its levels.
type EditBridge struct {
	analyzer Analyzer
	strict   bool
}

func NewEditBridge(analyzer Analyzer, strict bool) *EditBridge {
	return &EditBridge{
		analyzer: analyzer,
		strict:   strict,
	}
}

func (self *EditBridge) constArray(value bool) *BoolArr {
	elements := make([]bool, self.analyzer.Info().FrameCount)
	for i := range elements {
		elements[i] = value
	}
	return NewBoolArr(elements)
}

func (self *EditBridge) Evaluate(descriptor string) (*BoolArr, error) {
	method := descriptor
	attrText := ""
	if i := strings.Index(descriptor, methodAttrsSep); i >= 0 {
		method = descriptor[:i]
		attrText = descriptor[i+1:]
	}

	known := false
	for _, m := range editMethods {
		if method == m {
			known = true
			break
		}
	}
	if !known {
		return nil, newRuntimeError(ErrDescriptor, "unknown edit method %s", method)
	}

	switch method {
	case "none", "all":
		if attrText != "" {
			return nil, newRuntimeError(ErrDescriptor, "%s does not take attributes", method)
		}
		return self.constArray(method == "all"), nil
	case "random":
		return self.evaluateRandom(attrText)
	case "audio":
		return self.evaluateAudio(attrText)
	case "motion":
		return self.evaluateMotion(attrText)
	}
	return self.evaluatePixeldiff(attrText)
}

func (self *EditBridge) evaluateRandom(attrText string) (*BoolArr, error) {
	attrs, err := parseAttrs(attrText, "threshold", "seed")
	if err != nil {
		return nil, err
	}
	threshold, err := attrs.floatInRange("threshold", 0.5, 0, 1)
	if err != nil {
		return nil, err
	}
	seed, err := attrs.integer("seed", -1)
	if err != nil {
		return nil, err
	}
	levels, err := self.analyzer.RandomLevels(seed)
	if err != nil {
		return nil, newRuntimeError(ErrDescriptor, "random: %v", err)
	}
	return NewBoolArr(toThreshold(levels, threshold)), nil
}

func (self *EditBridge) evaluateAudio(attrText string) (*BoolArr, error) {
	attrs, err := parseAttrs(attrText, "threshold", "stream")
	if err != nil {
		return nil, err
	}
	threshold, err := attrs.floatInRange("threshold", 0.04, 0, 1)
	if err != nil {
		return nil, err
	}
	stream, ok := attrs.values["stream"]
	if !ok {
		stream = "0"
	}

	if stream == "all" {
		streams := self.analyzer.Info().AudioStreams
		if streams == 0 {
			if self.strict {
				return nil, newRuntimeError(ErrDescriptor, "input has no audio streams")
			}
			return self.constArray(true), nil
		}
		var total []bool
		for s := 0; s < streams; s += 1 {
			levels, err := self.analyzer.AudioLevels(s)
			if err != nil {
				return nil, newRuntimeError(ErrDescriptor, "audio: %v", err)
			}
			streamData := toThreshold(levels, threshold)
			if total == nil {
				total = streamData
			} else {
				total = boolop(total, streamData, logicalOr)
			}
		}
		return NewBoolArr(total), nil
	}

	index, err := strconv.Atoi(stream)
	if err != nil || index < 0 {
		return nil, newRuntimeError(ErrDescriptor, "audio: bad stream value %s", stream)
	}
	if index >= self.analyzer.Info().AudioStreams {
		if self.strict {
			return nil, newRuntimeError(ErrDescriptor, "audio stream %d does not exist", index)
		}
		return self.constArray(true), nil
	}
	levels, err := self.analyzer.AudioLevels(index)
	if err != nil {
		return nil, newRuntimeError(ErrDescriptor, "audio: %v", err)
	}
	return NewBoolArr(toThreshold(levels, threshold)), nil
}

func (self *EditBridge) evaluateMotion(attrText string) (*BoolArr, error) {
	attrs, err := parseAttrs(attrText, "threshold", "blur", "width")
	if err != nil {
		return nil, err
	}
	threshold, err := attrs.floatInRange("threshold", 0.02, 0, 1)
	if err != nil {
		return nil, err
	}
	blur, err := attrs.integer("blur", 9)
	if err != nil {
		return nil, err
	}
	width, err := attrs.integer("width", 400)
	if err != nil {
		return nil, err
	}
	if blur < 0 || width < 1 {
		return nil, newRuntimeError(ErrDescriptor, "motion: attribute out of range")
	}
	levels, err := self.analyzer.MotionLevels(MotionOptions{Blur: int(blur), Width: int(width)})
	if err != nil {
		return nil, newRuntimeError(ErrDescriptor, "motion: %v", err)
	}
	return NewBoolArr(toThreshold(levels, threshold)), nil
}

func (self *EditBridge) evaluatePixeldiff(attrText string) (*BoolArr, error) {
	attrs, err := parseAttrs(attrText, "threshold")
	if err != nil {
		return nil, err
	}
	threshold, err := attrs.integer("threshold", 1)
	if err != nil {
		return nil, err
	}
	if threshold < 0 {
		return nil, newRuntimeError(ErrDescriptor, "pixeldiff: attribute out of range")
	}
	levels, err := self.analyzer.PixeldiffLevels()
	if err != nil {
		return nil, newRuntimeError(ErrDescriptor, "pixeldiff: %v", err)
	}
	return NewBoolArr(toThreshold(levels, float64(threshold))), nil
}

// editAttrs holds one descriptor's decoded attribute strings.
type editAttrs struct {
	values map[string]string
}

// parseAttrs decodes comma-separated attributes. A k=v pair binds by name;
// a bare value binds positionally to the next unbound name in schema order.
func parseAttrs(attrText string, names ...string) (editAttrs, error) {
	attrs := editAttrs{values: map[string]string{}}
	if attrText == "" {
		return attrs, nil
	}
	positional := 0
	for _, part := range strings.Split(attrText, ",") {
		name := ""
		value := part
		if i := strings.Index(part, "="); i >= 0 {
			name = part[:i]
			value = part[i+1:]
		} else {
			if positional >= len(names) {
				return attrs, newRuntimeError(ErrDescriptor, "too many attributes in %s", attrText)
			}
			name = names[positional]
			positional += 1
		}

		known := false
		for _, n := range names {
			if name == n {
				known = true
				break
			}
		}
		if !known {
			return attrs, newRuntimeError(ErrDescriptor, "unknown attribute %s", name)
		}
		if _, ok := attrs.values[name]; ok {
			return attrs, newRuntimeError(ErrDescriptor, "duplicate attribute %s", name)
		}
		attrs.values[name] = value
	}
	return attrs, nil
}

func (self editAttrs) floatInRange(name string, def, lo, hi float64) (float64, error) {
	text, ok := self.values[name]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, newRuntimeError(ErrDescriptor, "attribute %s: bad number %s", name, text)
	}
	if f < lo || f > hi {
		return 0, newRuntimeError(ErrDescriptor, "attribute %s: %s out of range", name, text)
	}
	return f, nil
}

func (self editAttrs) integer(name string, def int64) (int64, error) {
	text, ok := self.values[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, newRuntimeError(ErrDescriptor, "attribute %s: bad integer %s", name, text)
	}
	return n, nil
}

// MemoryAnalyzer serves precomputed levels. It backs the synthetic media
// mode of the front end and the test suite; real decoding lives in the host.
type MemoryAnalyzer struct {
	Frames    int
	Audio     [][]float64
	Motion    []float64
	Pixeldiff []float64
	Width     int
}

func (self *MemoryAnalyzer) Info() MediaInfo {
	return MediaInfo{
		FrameCount:   self.Frames,
		AudioStreams: len(self.Audio),
		VideoWidth:   self.Width,
	}
}

func (self *MemoryAnalyzer) AudioLevels(stream int) ([]float64, error) {
	if stream < 0 || stream >= len(self.Audio) {
		return nil, newRuntimeError(ErrDescriptor, "audio stream %d does not exist", stream)
	}
	return self.Audio[stream], nil
}

func (self *MemoryAnalyzer) MotionLevels(opts MotionOptions) ([]float64, error) {
	if self.Motion == nil {
		return nil, newRuntimeError(ErrDescriptor, "input has no video stream")
	}
	return self.Motion, nil
}

func (self *MemoryAnalyzer) PixeldiffLevels() ([]float64, error) {
	if self.Pixeldiff == nil {
		return nil, newRuntimeError(ErrDescriptor, "input has no video stream")
	}
	return self.Pixeldiff, nil
}

func (self *MemoryAnalyzer) RandomLevels(seed int64) ([]float64, error) {
	source := seed
	if source < 0 {
		source = rand.Int63()
	}
	rng := rand.New(rand.NewSource(source))
	levels := make([]float64, self.Frames)
	for i := range levels {
		levels[i] = rng.Float64()
	}
	return levels, nil
}
