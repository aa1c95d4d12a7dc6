package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CreateFile will create a file at the given path and file name combination. If the path is the empty string, the
// file will be created in the current working directory.
func CreateFile(path string, fileName string) (*os.File, error) {
	filePath := fileName
	if path != "" {
		err := MakeDirectory(path)
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(path, fileName)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return file, nil
}

// CopyFile copies a file from a source path to a destination path. File permissions are retained.
func CopyFile(sourcePath string, targetPath string) error {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	if sourceInfo.IsDir() {
		return errors.Errorf("could not copy file from '%s' to '%s' because the source path refers to a directory", sourcePath, targetPath)
	}

	// Ensure the existence of the directory we wish to copy to.
	err = os.MkdirAll(filepath.Dir(targetPath), 0777)
	if err != nil {
		return errors.WithStack(err)
	}

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer sourceFile.Close()

	targetFile, err := os.Create(targetPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer targetFile.Close()

	_, err = io.Copy(targetFile, sourceFile)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Chmod(targetPath, sourceInfo.Mode()))
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithStack(os.MkdirAll(dirToMake, 0777))
		}
		return errors.WithStack(err)
	}

	if !dirInfo.IsDir() {
		return errors.Errorf("there is a file with the same name as %s", dirToMake)
	}
	return nil
}

// CopyDirectory copies a directory from a source path to a destination path. If recursively, all subdirectories will be
// copied. If not, only files within the directory will be copied.
func CopyDirectory(sourcePath string, targetPath string, recursively bool) error {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	if !sourceInfo.IsDir() {
		return errors.Errorf("could not copy directory from '%s' to '%s' because the source path does not refer to a valid directory", sourcePath, targetPath)
	}

	err = os.MkdirAll(targetPath, sourceInfo.Mode())
	if err != nil {
		return errors.WithStack(err)
	}

	dirEntries, err := os.ReadDir(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	for _, dirEntry := range dirEntries {
		entSourcePath := filepath.Join(sourcePath, dirEntry.Name())
		entTargetPath := filepath.Join(targetPath, dirEntry.Name())

		if dirEntry.IsDir() {
			if recursively {
				err = CopyDirectory(entSourcePath, entTargetPath, recursively)
			}
		} else {
			err = CopyFile(entSourcePath, entTargetPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
