//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// IntuitionScope reinterprets float32 sample blocks as raw little-endian
// bytes on the device path, which assumes little-endian byte order.
var _ = "IntuitionScope requires a little-endian architecture" + 1
