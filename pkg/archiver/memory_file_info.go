package archiver

import (
	"io/fs"
	"time"
)

// MemoryFileInfo describes a bundle entry that only exists in memory
type MemoryFileInfo struct {
	EntryName    string
	EntrySize    int64
	EntryMode    fs.FileMode
	EntryModTime time.Time
}

func (m MemoryFileInfo) Name() string       { return m.EntryName }
func (m MemoryFileInfo) Size() int64        { return m.EntrySize }
func (m MemoryFileInfo) Mode() fs.FileMode  { return m.EntryMode }
func (m MemoryFileInfo) ModTime() time.Time { return m.EntryModTime }
func (m MemoryFileInfo) IsDir() bool        { return false }
func (m MemoryFileInfo) Sys() any           { return nil }
