package media

// Preset bundles the limits for one kind of listing image.
type Preset struct {
	Path      string
	MaxSizeMB float64
	MaxWidth  int
	MaxHeight int
	Quality   float64
	MaxFiles  int
}

var (
	Logos = Preset{
		Path:      "model-logos",
		MaxSizeMB: 2,
		MaxWidth:  400,
		MaxHeight: 400,
		Quality:   0.9,
		MaxFiles:  1,
	}
	Screenshots = Preset{
		Path:      "model-screenshots",
		MaxSizeMB: 5,
		MaxWidth:  1200,
		MaxHeight: 800,
		Quality:   0.8,
		MaxFiles:  5,
	}
)

// Prepare validates f against the preset and resizes it.
func (p Preset) Prepare(f File) (File, error) {
	if err := Validate(f, p.MaxSizeMB); err != nil {
		return File{}, err
	}
	return Resize(f, p.MaxWidth, p.MaxHeight, p.Quality)
}
