package utils

import (
	"os"
	"strconv"
)

func FileExist(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func CreateDirIfNotExist(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatPercentage renders a reading without trailing zeros e.g. 12.50 -> "12.5"
func FormatPercentage(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
