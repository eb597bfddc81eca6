package pathname

// Stats counts the units an encoding is made of.
type Stats struct {
	IconPairs     int      `json:"icon_pairs"`    // Template icon pairs written
	Substitutions int      `json:"substitutions"` // Reserved characters written as full-width glyphs
	NulGlyphs     int      `json:"nul_glyphs"`    // NUL characters written as 〇
	Escapes       int      `json:"escapes"`       // Table glyphs written with the escape quote
	Templates     []string `json:"templates"`     // Matched templates in order, e.g. "linux/home"
}

func (s *Stats) template(e *TemplateEntry) {
	if s == nil {
		return
	}
	s.IconPairs++
	s.Templates = append(s.Templates, e.String())
}

func (s *Stats) substitution() {
	if s != nil {
		s.Substitutions++
	}
}

func (s *Stats) nul() {
	if s != nil {
		s.NulGlyphs++
	}
}

func (s *Stats) escape() {
	if s != nil {
		s.Escapes++
	}
}

// Analysis describes how a path was encoded.
type Analysis struct {
	OriginalPath   string  `json:"original_path"`
	EncodedName    string  `json:"encoded_name"`
	OriginalLength int     `json:"original_length"` // Bytes
	EncodedLength  int     `json:"encoded_length"`  // Bytes
	ExpansionRatio float64 `json:"expansion_ratio"`
	Stats
}

// Analyze encodes path and reports what the encoding consists of.
func Analyze(path string) Analysis {
	var st Stats
	encoded := encode(path, &st)

	var ratio float64
	if len(path) > 0 {
		ratio = float64(len(encoded)) / float64(len(path))
	}

	return Analysis{
		OriginalPath:   path,
		EncodedName:    encoded,
		OriginalLength: len(path),
		EncodedLength:  len(encoded),
		ExpansionRatio: ratio,
		Stats:          st,
	}
}
