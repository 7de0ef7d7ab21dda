package format

// Mode is the user-chosen delivery mode.
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// ParseMode maps callback input to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "video":
		return ModeVideo, true
	case "audio":
		return ModeAudio, true
	default:
		return "", false
	}
}

// Directive is the resolved set of format and post-processing options sent
// to the extraction engine. Immutable; derived purely from the mode.
type Directive struct {
	Format         string
	ExtractAudio   bool
	AudioCodec     string
	AudioQuality   string
	OutputTemplate string
}

// Select resolves a delivery mode into an extraction directive.
// video picks the best combined or best available video+audio container;
// audio picks the best audio track and transcodes it to mp3 at 192 kbps.
// An unrecognized mode is a caller programming error.
func Select(mode Mode) Directive {
	d := Directive{OutputTemplate: "%(title).80s.%(ext)s"}
	switch mode {
	case ModeVideo:
		d.Format = "bv*+ba/b"
	case ModeAudio:
		d.Format = "bestaudio/best"
		d.ExtractAudio = true
		d.AudioCodec = "mp3"
		d.AudioQuality = "192K"
	default:
		panic("format: unknown mode " + string(mode))
	}
	return d
}
