package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu/gputest"
)

func TestCubeProgram(t *testing.T) {
	vs, fs, err := CubeProgram()
	if err != nil {
		t.Fatalf("CubeProgram: %v", err)
	}

	if vs.EntryPoint != "vs_main" || vs.Stage != gpu.ShaderStageVertex || vs.NumUniformBuffers != 2 {
		t.Fatalf("vertex blob = %+v, want vs_main with 2 uniform slots", vs)
	}
	if fs.EntryPoint != "fs_main" || fs.Stage != gpu.ShaderStageFragment || fs.NumUniformBuffers != 0 {
		t.Fatalf("fragment blob = %+v, want fs_main with 0 uniform slots", fs)
	}
	if vs.Format != gpu.ShaderFormatWGSL || len(vs.Code) == 0 {
		t.Fatal("vertex blob has no WGSL code")
	}
}

func TestReflectWGSL(t *testing.T) {
	const src = `
@group(0) @binding(0) var<uniform> a: mat4x4<f32>;
@group(0) @binding(1) var<uniform> b: mat4x4<f32>;
@group(1) @binding(0) var<storage, read> items: array<f32>;
@group(1) @binding(1) var samp: sampler;
/* @group(0) @binding(2) var<uniform> commented: f32; */

@vertex
fn main_v(@location(0) p: vec4<f32>) -> @builtin(position) vec4<f32> {
    // a is only named in this comment
    return b * p * items[0];
}

@fragment
fn main_f() -> @location(0) vec4<f32> {
    if (true) { let s = samp; }
    return vec4<f32>(1.0);
}
`
	tests := []struct {
		name    string
		stage   gpu.ShaderStage
		entry   string
		want    Reflection
		wantErr string
	}{
		{
			name:    "vertex gap in uniform slots",
			stage:   gpu.ShaderStageVertex,
			wantErr: "not contiguous",
		},
		{
			name:  "fragment discovered entry point",
			stage: gpu.ShaderStageFragment,
			want:  Reflection{EntryPoint: "main_f", NumSamplers: 1},
		},
		{
			name:    "missing entry point",
			stage:   gpu.ShaderStageVertex,
			entry:   "nope",
			wantErr: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReflectWGSL(src, tt.stage, tt.entry)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReflectWGSL: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReflectWGSLCountsReferencedUniforms(t *testing.T) {
	const src = `
@group(0) @binding(0) var<uniform> a: mat4x4<f32>;
@group(0) @binding(1) var<uniform> b: mat4x4<f32>;
@vertex fn v() -> @builtin(position) vec4<f32> { return a * b * vec4<f32>(0.0); }
`
	got, err := ReflectWGSL(src, gpu.ShaderStageVertex, "")
	if err != nil {
		t.Fatalf("ReflectWGSL: %v", err)
	}
	if got.EntryPoint != "v" || got.NumUniformBuffers != 2 {
		t.Fatalf("got %+v, want entry v with 2 uniform slots", got)
	}
}

func TestReflectWGSLRejectsUniformOutsideGroupZero(t *testing.T) {
	const src = `
@group(1) @binding(0) var<uniform> a: mat4x4<f32>;
@vertex fn v() -> @builtin(position) vec4<f32> { return a * vec4<f32>(0.0); }
`
	if _, err := ReflectWGSL(src, gpu.ShaderStageVertex, ""); err == nil {
		t.Fatal("expected an error for a uniform outside group 0")
	}
}

func TestLoadBlobs(t *testing.T) {
	dir := t.TempDir()
	vs, _, err := CubeProgram()
	if err != nil {
		t.Fatal(err)
	}
	wgslPath := filepath.Join(dir, "cube.wgsl")
	spvPath := filepath.Join(dir, "cube.frag.spv")
	if err := os.WriteFile(wgslPath, vs.Code, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(spvPath, []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}

	blobs, err := LoadBlobs([]Source{
		{Path: wgslPath, Stage: gpu.ShaderStageVertex},
		{Path: spvPath, Stage: gpu.ShaderStageFragment, EntryPoint: "main"},
	}, 4)
	if err != nil {
		t.Fatalf("LoadBlobs: %v", err)
	}
	if len(blobs) != 2 {
		t.Fatalf("got %d blobs, want 2", len(blobs))
	}
	if blobs[0].EntryPoint != "vs_main" || blobs[0].NumUniformBuffers != 2 {
		t.Fatalf("wgsl blob = %+v", blobs[0])
	}
	if blobs[1].Format != gpu.ShaderFormatSPIRV || blobs[1].EntryPoint != "main" {
		t.Fatalf("spirv blob = %+v", blobs[1])
	}
}

func TestLoadBlobsReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "shader.glsl")
	if err := os.WriteFile(bad, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadBlobs([]Source{
		{Path: filepath.Join(dir, "missing.wgsl")},
		{Path: bad},
	}, 2)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "missing.wgsl") || !strings.Contains(err.Error(), "unknown shader format") {
		t.Fatalf("err = %v, want both failures reported", err)
	}
}

func TestBlobCreate(t *testing.T) {
	dev := gputest.NewDevice()
	vs, _, err := CubeProgram()
	if err != nil {
		t.Fatal(err)
	}

	owned, err := vs.Create(dev)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := dev.Shaders()
	if len(got) != 1 || got[0].EntryPoint != "vs_main" || got[0].NumUniformBuffers != 2 {
		t.Fatalf("device shaders = %+v", got)
	}
	owned.Release()
	if dev.Live() != 0 {
		t.Fatalf("Live() = %d after release", dev.Live())
	}
}
