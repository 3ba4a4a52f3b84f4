// Package report turns collector records into output files and summary statistics.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim"
)

const csvSeparator = " , "

// WriteCSV writes one line per record: creation, service start, service completion and
// entity type (0 regular, 1 alternate), under a header of the timeline labels.
// Values use the shortest representation that round-trips, so two identical runs
// produce byte-identical files.
func WriteCSV(w io.Writer, records []sim.Record) error {
	bw := bufio.NewWriter(w)
	header := sim.LabelCreation + csvSeparator + sim.LabelServiceStart + csvSeparator +
		sim.LabelServiceFinish + csvSeparator + "Type\n"
	if _, err := bw.WriteString(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		line := formatFloat(r.Arrival()) + csvSeparator +
			formatFloat(r.ServiceStart()) + csvSeparator +
			formatFloat(r.Completion()) + csvSeparator +
			strconv.Itoa(int(r.Type)) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("writing csv record %d: %w", r.EntityID, err)
		}
	}
	return bw.Flush()
}

// WriteCSVFile writes records to path, truncating any existing file.
func WriteCSVFile(path string, records []sim.Record) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := WriteCSV(file, records); err != nil {
		return err
	}
	logrus.Debugf("Wrote %d records to '%s'", len(records), path)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
