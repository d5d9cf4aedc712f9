package gitbookconverter

// https://golangcode.com/create-zip-files-in-go/

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// ZipFiles compresses one or many files into a single flat zip archive.
// Every entry is named after the base name of its file.
func ZipFiles(filename string, files []string) error {
	newfile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer closeWithLog(newfile, "zip file")

	zipWriter := zip.NewWriter(newfile)
	defer closeWithLog(zipWriter, "zip writer")

	for _, file := range files {
		if err := addFileToZip(zipWriter, file, filepath.Base(file)); err != nil {
			return err
		}
	}
	return nil
}

// ZipDirectory compresses the content of srcDir into a zip archive. Entry
// names are relative to srcDir and use forward slashes.
func ZipDirectory(filename, srcDir string) error {
	newfile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer closeWithLog(newfile, "zip file")

	zipWriter := zip.NewWriter(newfile)
	defer closeWithLog(zipWriter, "zip writer")

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return addFileToZip(zipWriter, path, filepath.ToSlash(relPath))
	})
}

// addFileToZip copies a single file into the archive, closing it right after
func addFileToZip(zipWriter *zip.Writer, path, name string) error {
	zipfile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeWithLog(zipfile, "file")

	info, err := zipfile.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	// Change to deflate to gain better compression
	// see http://golang.org/pkg/archive/zip/#pkg-constants
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, zipfile)
	return err
}

// Unzip extracts archivePath into dst. Any failure, including an entry that
// would land outside dst, is returned as an *ArchiveError.
func Unzip(archivePath, dst string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ArchiveError{Path: archivePath, Err: err}
	}
	defer closeWithLog(reader, "zip reader")

	for _, file := range reader.File {
		if err := extractFile(file, dst); err != nil {
			return &ArchiveError{Path: archivePath, Err: err}
		}
	}
	log.Debugf("Extracted %d entries from %s", len(reader.File), archivePath)
	return nil
}

func extractFile(file *zip.File, dst string) error {
	target := filepath.Join(dst, filepath.FromSlash(file.Name))
	if err := validatePathContainment(dst, target); err != nil {
		return err
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", file.Name, err)
	}
	defer closeWithLog(src, "zip entry")

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer closeWithLog(out, "extracted file")

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to extract entry %s: %w", file.Name, err)
	}
	return nil
}
