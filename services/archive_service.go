package services

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// ZipSingleFile writes a ZIP archive holding exactly one file.
func ZipSingleFile(w io.Writer, name string, content []byte) error {
	zw := zip.NewWriter(w)

	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write zip entry: %w", err)
	}
	return zw.Close()
}
