// Package ir holds the canonical interface model for ffikit.
//
// This package contains the definition models, the type universe, the
// checksum subsystem and the ComponentInterface aggregate. All other
// internal packages import ir; ir imports nothing internal. This ensures
// ir remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - The models hold only normalized state; nothing front-end specific
//     leaks in, so both front ends produce identical IR for identical
//     logical content.
//   - Derived data (FFI signatures, checksums, back-references) is
//     computed once at finalize time, never eagerly per insert.
//   - Checksums never cover derived FFI data: the symbol name embeds the
//     checksum, so including it would make the hash self-referential.
package ir
