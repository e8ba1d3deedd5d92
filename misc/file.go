package misc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func ReadFile(fileName string) ([]byte, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}
	// open file for reading
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s - %w", fileName, err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s - %w", fileName, err)
	}
	return fileBytes, nil
}

// CreateFile creates (or truncates) fileName, making any missing parent directories first.
func CreateFile(fileName string) (*os.File, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}

	dir := filepath.Dir(fileName)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("unable to create folder %s - %w", dir, err)
		}
	}

	file, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to create file %s - %w", fileName, err)
	}
	return file, nil
}
