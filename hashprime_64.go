//go:build amd64 || arm64 || ppc64 || ppc64le || mips64 || mips64le || riscv64 || s390x || wasm

package stripemap

// hashPrime is xxHash's 64-bit PRIME64_1, an odd mixing constant close
// to (but not equal to) the 64-bit Golden Ratio constant
// 0x9E3779B97F4A7C15. It is used to spread
// a raw hash value's high bits into its low bits before masking it down
// to a bucket index.
const hashPrime = 0x9E3779B185EBCA87
