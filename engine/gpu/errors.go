package gpu

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/engine/resource"
)

// ErrNullHandle is returned when a creation call reports success but yields the null handle.
var ErrNullHandle = resource.ErrNullHandle

// ErrNoWindow is returned by operations that require a claimed window.
var ErrNoWindow = errors.New("no window claimed")

// Kind classifies a fatal GPU-layer failure by the phase it happened in.
type Kind int

const (
	// KindInit covers device, window, shader, buffer and pipeline creation.
	KindInit Kind = iota
	// KindUpload covers the staging upload of mesh data.
	KindUpload
	// KindFrame covers recording, submitting and waiting on a frame.
	KindFrame
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindUpload:
		return "upload"
	case KindFrame:
		return "frame"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a fatal failure reported by the GPU layer.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InitError wraps err as a KindInit failure of op. A nil err yields nil.
func InitError(op string, err error) error {
	return wrap(KindInit, op, err)
}

// UploadError wraps err as a KindUpload failure of op. A nil err yields nil.
func UploadError(op string, err error) error {
	return wrap(KindUpload, op, err)
}

// FrameError wraps err as a KindFrame failure of op. A nil err yields nil.
func FrameError(op string, err error) error {
	return wrap(KindFrame, op, err)
}

// IsKind reports whether err carries a *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Op: op, Err: err}
}
