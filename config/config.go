// Package config holds the fixed tunables of each pass and the option
// structs built from them.
package config

import (
	"strings"

	"github.com/pkg/errors"
)

// Directory layout and archive location
const (
	RawDataDir   = "RawData"
	DataDir      = "Data"
	ArchivePath  = "data.npz"
	ImagePattern = "*.jpg"
)

// Normalizer tunables
const (
	TargetWidth       = 64
	TargetHeight      = TargetWidth // square
	TargetMode        = ModeRGB
	JPEGQuality       = 75
	PrintEvery        = 100
	CropBeforeResize  = false
	AllowUpscale      = false
	GroupByLastFolder = true
)

// Deduplicator tunables
const (
	HashSize = 8
	HashKind = HashAverage // matches imagehash.average_hash; HashDifference is the gradient-thresholded variant
)

// Labels is the ordered class vocabulary; the index is the integer label
var Labels = []string{"normal", "pothole"}

// ErrInvalidOptions is returned by Validate for unusable settings
var ErrInvalidOptions = errors.New("invalid options")

// Mode is a color mode, named after the channel layout
type Mode string

const (
	ModeGray Mode = "L"
	ModeRGB  Mode = "RGB"
	ModeRGBA Mode = "RGBA"
)

// Channels returns the number of channels for the mode, or 0 if unknown
func (m Mode) Channels() int {
	switch m {
	case ModeGray:
		return 1
	case ModeRGB:
		return 3
	case ModeRGBA:
		return 4
	}
	return 0
}

// ModeForChannels maps a channel count back to its mode
func ModeForChannels(channels int) (Mode, bool) {
	switch channels {
	case 1:
		return ModeGray, true
	case 3:
		return ModeRGB, true
	case 4:
		return ModeRGBA, true
	}
	return "", false
}

// HashKindType selects the perceptual hash used as fingerprint
type HashKindType string

const (
	HashAverage    HashKindType = "average"
	HashDifference HashKindType = "difference"
)

// CollisionPolicy decides what happens when two sources map to one output path
type CollisionPolicy string

const (
	// CollisionOverwrite silently lets the later file win
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionWarn logs a warning and lets the later file win
	CollisionWarn CollisionPolicy = "warn"
	// CollisionFail skips the later file and reports an error outcome
	CollisionFail CollisionPolicy = "fail"
	// CollisionSuffix writes the later file as name_1.jpg, name_2.jpg, ...
	CollisionSuffix CollisionPolicy = "suffix"
)

// NormalizeOptions configures the normalize pass
type NormalizeOptions struct {
	InDir             string
	OutDir            string
	Pattern           string
	Width             int
	Height            int
	Mode              Mode
	Quality           int
	AllowUpscale      bool
	CropBeforeResize  bool
	GroupByLastFolder bool
	Collision         CollisionPolicy
	PrintEvery        int
	Verbose           bool
}

// DefaultNormalizeOptions returns the fixed constants of the normalize pass
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		InDir:             RawDataDir,
		OutDir:            DataDir,
		Pattern:           ImagePattern,
		Width:             TargetWidth,
		Height:            TargetHeight,
		Mode:              TargetMode,
		Quality:           JPEGQuality,
		AllowUpscale:      AllowUpscale,
		CropBeforeResize:  CropBeforeResize,
		GroupByLastFolder: GroupByLastFolder,
		Collision:         CollisionWarn,
		PrintEvery:        PrintEvery,
		Verbose:           true,
	}
}

// Validate checks the options before a pass starts
func (o NormalizeOptions) Validate() error {
	if o.InDir == "" || o.OutDir == "" {
		return errors.Wrap(ErrInvalidOptions, "input and output directories are required")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Wrapf(ErrInvalidOptions, "target size %dx%d must be positive", o.Width, o.Height)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.Wrapf(ErrInvalidOptions, "jpeg quality %d outside 1-100", o.Quality)
	}
	// JPEG has no alpha channel
	if o.Mode != ModeGray && o.Mode != ModeRGB {
		return errors.Wrapf(ErrInvalidOptions, "mode %q cannot be stored as JPEG", o.Mode)
	}
	switch o.Collision {
	case CollisionOverwrite, CollisionWarn, CollisionFail, CollisionSuffix:
	default:
		return errors.Wrapf(ErrInvalidOptions, "unknown collision policy %q", o.Collision)
	}
	return validatePattern(o.Pattern)
}

// DedupeOptions configures the duplicate search
type DedupeOptions struct {
	Root     string
	Pattern  string
	HashSize int
	HashKind HashKindType
	Verbose  bool
}

// DefaultDedupeOptions returns the fixed constants of the dedupe pass
func DefaultDedupeOptions() DedupeOptions {
	return DedupeOptions{
		Root:     DataDir,
		Pattern:  ImagePattern,
		HashSize: HashSize,
		HashKind: HashKind,
		Verbose:  false,
	}
}

// Validate checks the options before a pass starts
func (o DedupeOptions) Validate() error {
	if o.Root == "" {
		return errors.Wrap(ErrInvalidOptions, "root directory is required")
	}
	// width*height of the hash grid must be a multiple of 64
	if o.HashSize <= 0 || o.HashSize%8 != 0 {
		return errors.Wrapf(ErrInvalidOptions, "hash size %d must be a positive multiple of 8", o.HashSize)
	}
	if o.HashKind != HashAverage && o.HashKind != HashDifference {
		return errors.Wrapf(ErrInvalidOptions, "unknown hash kind %q", o.HashKind)
	}
	return validatePattern(o.Pattern)
}

// PackageOptions configures the dataset packager
type PackageOptions struct {
	Root        string
	Pattern     string
	ArchivePath string
}

// DefaultPackageOptions returns the fixed constants of the package pass
func DefaultPackageOptions() PackageOptions {
	return PackageOptions{
		Root:        DataDir,
		Pattern:     ImagePattern,
		ArchivePath: ArchivePath,
	}
}

// Validate checks the options before a pass starts
func (o PackageOptions) Validate() error {
	if o.Root == "" || o.ArchivePath == "" {
		return errors.Wrap(ErrInvalidOptions, "root directory and archive path are required")
	}
	if !strings.HasSuffix(o.ArchivePath, ".npz") {
		return errors.Wrapf(ErrInvalidOptions, "archive path %q must end in .npz", o.ArchivePath)
	}
	return validatePattern(o.Pattern)
}

func validatePattern(pattern string) error {
	if pattern == "" {
		return errors.Wrap(ErrInvalidOptions, "file pattern is required")
	}
	if strings.ContainsRune(pattern, '/') {
		return errors.Wrapf(ErrInvalidOptions, "file pattern %q must match base names only", pattern)
	}
	return nil
}
