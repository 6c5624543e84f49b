// Copyright (c) 2026 The RetroCell Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package retrocell

// This package deliberately declares no sentinel error values.
//
// RetroCell's core has no fallible operations in the "returns error" sense:
// it is a synchronization primitive, not an I/O component. Congestion and
// Blocked are ordinary, expected outcomes reported through the
// WriteOutcome/ReadResult sum types, not errors - a caller choosing
// CongestedOutcome.Writer.PerformCOW or ReadBlocked.Blocked.Wait is
// following one of two equally valid paths, not handling a failure.
//
// Misuse that would be a logic error elsewhere (two writer handles for one
// Cell, resolving a BlockedRead twice) is either prevented by construction
// (New mints exactly one Writer) or reported by panicking, matching the
// severity of a programming-contract violation rather than a runtime
// condition a caller should branch on.
