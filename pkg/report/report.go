package report

import (
	"os"

	"github.com/gocarina/gocsv"
)

func WriteCsv(in interface{}, fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(in, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
