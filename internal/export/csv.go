package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/gradr/internal/api"
)

// ToCSV writes one row per xp transaction: when, how much, where, and the
// graded object's name.
func ToCSV(xp []api.Transaction, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Amount", "Path", "Object"}); err != nil {
		return err
	}

	for _, tx := range xp {
		row := []string{
			tx.CreatedAt.UTC().Format(time.RFC3339),
			fmt.Sprintf("%.0f", tx.Amount),
			tx.Path,
			tx.ObjectName(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
