// SPDX-License-Identifier: MPL-2.0

package capability

import (
	"io/fs"
	"time"
)

// placeholderFileInfo is what the os.Stat stand-in reports for any path:
// an empty regular file with mode 0644.
type placeholderFileInfo struct {
	name string
}

func (fi placeholderFileInfo) Name() string       { return fi.name }
func (fi placeholderFileInfo) Size() int64        { return 0 }
func (fi placeholderFileInfo) Mode() fs.FileMode  { return 0o644 }
func (fi placeholderFileInfo) ModTime() time.Time { return time.Time{} }
func (fi placeholderFileInfo) IsDir() bool        { return false }
func (fi placeholderFileInfo) Sys() any           { return nil }
