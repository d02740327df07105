package editor

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/pixels"
)

// Kind names a transform.
type Kind string

// Supported transforms.
const (
	KindInvert     Kind = "invert"
	KindGrayscale  Kind = "grayscale"
	KindBrightness Kind = "brightness"
	KindContrast   Kind = "contrast"
	KindBinarize   Kind = "binarize"
)

// Kinds lists every supported transform in a stable order.
var Kinds = []Kind{KindInvert, KindGrayscale, KindBrightness, KindContrast, KindBinarize}

// Op is one transform together with its parameter. Only the field matching
// Kind is used.
type Op struct {
	Kind        Kind    `json:"kind"`
	Offset      int     `json:"offset,omitempty"`
	Coefficient float64 `json:"coefficient,omitempty"`
	Threshold   int     `json:"threshold,omitempty"`
}

// Invert returns an invert Op.
func Invert() Op { return Op{Kind: KindInvert} }

// Grayscale returns a grayscale Op.
func Grayscale() Op { return Op{Kind: KindGrayscale} }

// Brightness returns a brightness Op with the given offset.
func Brightness(offset int) Op { return Op{Kind: KindBrightness, Offset: offset} }

// Contrast returns a contrast Op with the given coefficient.
func Contrast(coefficient float64) Op { return Op{Kind: KindContrast, Coefficient: coefficient} }

// Binarize returns a binarization Op with the given threshold.
func Binarize(threshold int) Op { return Op{Kind: KindBinarize, Threshold: threshold} }

// Validate checks that Kind is known and the parameter is usable.
func (o Op) Validate() error {
	switch o.Kind {
	case KindInvert, KindGrayscale, KindBrightness, KindBinarize:
		return nil
	case KindContrast:
		return CheckCoefficient(o.Coefficient)
	default:
		return fmt.Errorf("unknown operation %q", o.Kind)
	}
}

// Apply runs the transform on buf in place. Validate must have succeeded.
func (o Op) Apply(buf pixels.Buffer) {
	switch o.Kind {
	case KindInvert:
		pixels.Invert(buf)
	case KindGrayscale:
		pixels.Grayscale(buf)
	case KindBrightness:
		pixels.AdjustBrightness(buf, o.Offset)
	case KindContrast:
		pixels.AdjustContrast(buf, o.Coefficient)
	case KindBinarize:
		pixels.Binarize(buf, o.Threshold)
	}
}

// String formats the Op the way ParseOp reads it.
func (o Op) String() string {
	switch o.Kind {
	case KindBrightness:
		return fmt.Sprintf("%s=%d", o.Kind, o.Offset)
	case KindContrast:
		return fmt.Sprintf("%s=%g", o.Kind, o.Coefficient)
	case KindBinarize:
		return fmt.Sprintf("%s=%d", o.Kind, o.Threshold)
	default:
		return string(o.Kind)
	}
}

// ParseOp reads an Op from "name" or "name=value", for example "invert",
// "brightness=-20", "contrast=1.5" or "binarize=382".
func ParseOp(s string) (Op, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(s), "=")
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))

	needsValue := kind == KindBrightness || kind == KindContrast || kind == KindBinarize
	if needsValue && !hasValue {
		return Op{}, fmt.Errorf("operation %q requires a value (%s=N)", kind, kind)
	}
	if !needsValue && hasValue {
		return Op{}, fmt.Errorf("operation %q takes no value", kind)
	}

	return NewOp(kind, value)
}

// NewOp builds an Op from a kind and the raw text of its parameter. The text
// is ignored for invert and grayscale.
func NewOp(kind Kind, value string) (Op, error) {
	switch kind {
	case KindInvert:
		return Invert(), nil
	case KindGrayscale:
		return Grayscale(), nil
	case KindBrightness:
		n, err := ParseOffset(value)
		if err != nil {
			return Op{}, err
		}
		return Brightness(n), nil
	case KindContrast:
		v, err := ParseCoefficient(value)
		if err != nil {
			return Op{}, err
		}
		return Contrast(v), nil
	case KindBinarize:
		n, err := ParseThreshold(value)
		if err != nil {
			return Op{}, err
		}
		return Binarize(n), nil
	default:
		return Op{}, fmt.Errorf("unknown operation %q", kind)
	}
}
