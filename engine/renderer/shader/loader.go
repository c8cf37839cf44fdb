package shader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

// maxBlobSize rejects files that cannot plausibly be a shader.
const maxBlobSize = 4 << 20

// Source names a shader blob on disk.
type Source struct {
	Path  string
	Stage gpu.ShaderStage
	// EntryPoint overrides the entry point. Required for SPIR-V.
	EntryPoint string
	// NumUniformBuffers declares the uniform slot count of a SPIR-V blob.
	// WGSL blobs are reflected instead.
	NumUniformBuffers uint32
}

// FormatForPath infers the blob format from the file extension.
func FormatForPath(path string) gpu.ShaderFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wgsl":
		return gpu.ShaderFormatWGSL
	case ".spv", ".spirv":
		return gpu.ShaderFormatSPIRV
	default:
		return gpu.ShaderFormatInvalid
	}
}

// LoadBlobs reads every source concurrently on a bounded worker pool and returns
// the blobs in source order. It runs before any GPU object exists, so a failure
// here never needs GPU cleanup.
//
// Parameters:
//   - sources: the files to load
//   - workers: maximum number of concurrent reads (values < 1 mean 1)
//
// Returns:
//   - []Blob: one blob per source, in the same order
//   - error: every load failure joined together
func LoadBlobs(sources []Source, workers int) ([]Blob, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	workers = max(1, min(workers, len(sources)))

	pool := worker.NewDynamicWorkerPool(workers, len(sources), 1*time.Second)

	blobs := make([]Blob, len(sources))
	errs := make([]error, len(sources))

	// The WaitGroup is the barrier; the pool's own Wait blocks until its workers idle out.
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		idx, s := i, src
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				blobs[idx], errs[idx] = loadBlob(s)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return blobs, nil
}

func loadBlob(src Source) (Blob, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return Blob{}, fmt.Errorf("shader %s: %w", src.Path, err)
	}
	if info.Size() > maxBlobSize {
		return Blob{}, fmt.Errorf("shader %s: %d bytes exceeds the %d byte limit", src.Path, info.Size(), maxBlobSize)
	}
	code, err := os.ReadFile(src.Path)
	if err != nil {
		return Blob{}, fmt.Errorf("shader %s: %w", src.Path, err)
	}

	name := filepath.Base(src.Path)
	switch FormatForPath(src.Path) {
	case gpu.ShaderFormatWGSL:
		return FromWGSL(name, code, src.Stage, src.EntryPoint)
	case gpu.ShaderFormatSPIRV:
		if src.EntryPoint == "" {
			return Blob{}, fmt.Errorf("shader %s: SPIR-V blobs need an explicit entry point", src.Path)
		}
		if len(code)%4 != 0 {
			return Blob{}, fmt.Errorf("shader %s: SPIR-V size %d is not a multiple of 4", src.Path, len(code))
		}
		return Blob{
			Name:              name,
			Code:              code,
			EntryPoint:        src.EntryPoint,
			Format:            gpu.ShaderFormatSPIRV,
			Stage:             src.Stage,
			NumUniformBuffers: src.NumUniformBuffers,
		}, nil
	default:
		return Blob{}, fmt.Errorf("shader %s: unknown shader format", src.Path)
	}
}
