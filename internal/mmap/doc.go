// Package mmap maps stored set files read-only into memory.
//
// LocalStore reads every blob through a Mapping: the file is mapped, the
// kernel is told the access will be sequential, and the bytes are copied out
// before the mapping is closed. Zero-length files are never mapped.
//
// Unix uses mmap(2)/madvise(2); Windows uses CreateFileMapping/MapViewOfFile
// and ignores access hints.
package mmap
