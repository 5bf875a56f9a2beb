// Package knowledge loads the campus data file and converts its records
// into flat documents suitable for embedding.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"campus-assist/internal/domain"
)

var validate = validator.New()

// Load reads all facility records from the JSON data file. Records are not
// validated here; Build reports per-record problems so one bad entry does
// not fail the whole batch.
func Load(path string) ([]domain.FacilityRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campus data: %w", err)
	}
	var records []domain.FacilityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse campus data: %w", err)
	}
	return records, nil
}

// checkRequired validates the record's required fields and converts the
// first failure into a MissingFieldError.
func checkRequired(rec domain.FacilityRecord) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &domain.MissingFieldError{RecordID: rec.ID, Field: verrs[0].Field()}
	}
	return err
}
