package model

import (
	"path/filepath"
	"strings"
)

// FileType classifies an uploaded receipt file by its name.
type FileType string

const (
	FileTypeJPG   FileType = "jpg"
	FileTypePNG   FileType = "png"
	FileTypePDF   FileType = "pdf"
	FileTypeOther FileType = "other"
)

// FileTypeFromFilename classifies a filename by its suffix, case-insensitively.
// Both .jpg and .jpeg map to FileTypeJPG.
func FileTypeFromFilename(name string) FileType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return FileTypeJPG
	case ".png":
		return FileTypePNG
	case ".pdf":
		return FileTypePDF
	default:
		return FileTypeOther
	}
}

// Supported reports whether the type can be extracted.
func (f FileType) Supported() bool {
	return f == FileTypeJPG || f == FileTypePNG || f == FileTypePDF
}

// IsImage reports whether the type is a raster image.
func (f FileType) IsImage() bool {
	return f == FileTypeJPG || f == FileTypePNG
}

// MIMEType returns the media type for the file type.
func (f FileType) MIMEType() string {
	switch f {
	case FileTypeJPG:
		return "image/jpeg"
	case FileTypePNG:
		return "image/png"
	case FileTypePDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
