package types

// Stage identifies which pass produced an outcome
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageDedupe    Stage = "dedupe"
	StagePackage   Stage = "package"
)

// Status is the per-file verdict of a pass
type Status string

const (
	StatusProcessed Status = "processed"
	StatusDiscarded Status = "discarded"
	StatusUnique    Status = "unique"
	StatusDuplicate Status = "duplicate"
	StatusDeleted   Status = "deleted"
	StatusPackaged  Status = "packaged"
	StatusRejected  Status = "rejected"
	StatusError     Status = "error"
)

// Fingerprint is the string form of a perceptual hash, usable as a map key
type Fingerprint string

// Raster holds decoded pixel data in row-major HWC order.
// Channels are in RGB(A) order; grayscale rasters have one channel.
type Raster struct {
	Height   int
	Width    int
	Channels int
	Pix      []uint8
}

// Shape returns the raster shape as [H, W, C]
func (r Raster) Shape() []int {
	return []int{r.Height, r.Width, r.Channels}
}

// SameShape reports whether two rasters can be stacked together
func (r Raster) SameShape(other Raster) bool {
	return r.Height == other.Height && r.Width == other.Width && r.Channels == other.Channels
}

// Outcome records what happened to one file during a pass
type Outcome struct {
	Stage       Stage       `json:"stage"`
	Path        string      `json:"path"`
	Status      Status      `json:"status"`
	Detail      string      `json:"detail,omitempty"`
	OutputPath  string      `json:"output_path,omitempty"`
	Fingerprint Fingerprint `json:"fingerprint,omitempty"`
	DuplicateOf string      `json:"duplicate_of,omitempty"`
	Label       int         `json:"label"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
}

// Recorder receives every outcome of a pass. Implementations must not
// retain the outcome beyond the call.
type Recorder interface {
	Record(outcome Outcome) error
}
