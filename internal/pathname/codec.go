package pathname

// Options configures a Codec.
type Options struct {
	// MaxFilenameBytes limits the length of encoded filenames. Zero or a
	// negative value means no limit.
	MaxFilenameBytes int
}

// Codec converts between paths and filenames under a set of Options.
type Codec struct {
	opts Options
}

// NewCodec creates a Codec.
func NewCodec(opts Options) *Codec {
	return &Codec{opts: opts}
}

var defaultCodec = NewCodec(Options{})

// MaxFilenameBytes returns the configured length limit, or 0 if there is none.
func (c *Codec) MaxFilenameBytes() int {
	if c.opts.MaxFilenameBytes < 0 {
		return 0
	}
	return c.opts.MaxFilenameBytes
}

// ToFilename encodes path. It fails only when the codec has a length limit
// and the encoding exceeds it; the error then wraps ErrFilenameTooLong.
func (c *Codec) ToFilename(path string) (string, error) {
	name := Encode(path)
	if limit := c.MaxFilenameBytes(); limit > 0 && len(name) > limit {
		return "", &EncodeError{Path: path, Length: len(name), Limit: limit, Err: ErrFilenameTooLong}
	}
	return name, nil
}

// ToPath decodes filename. See Decode.
func (c *Codec) ToPath(filename string) (string, error) {
	return Decode(filename)
}

// ToFilename encodes path with no length limit. The error is always nil; it
// is part of the signature so that callers are ready for a limited Codec.
func ToFilename(path string) (string, error) {
	return defaultCodec.ToFilename(path)
}

// ToPath decodes a filename produced by ToFilename.
func ToPath(filename string) (string, error) {
	return defaultCodec.ToPath(filename)
}
