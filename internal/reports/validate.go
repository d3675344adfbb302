package reports

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/ternarybob/tickerscope/internal/models"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// isoTimeLayouts are the accepted shapes for last_update
var isoTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	models.DateLayout,
}

func reportValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("isotime", func(fl validator.FieldLevel) bool {
			return IsISOTime(fl.Field().String())
		})
	})
	return validate
}

// IsISOTime reports whether s is an ISO 8601 date or datetime
func IsISOTime(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range isoTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// checkRequiredFields verifies every report field is present in the raw item,
// so that a missing boolean or number is not mistaken for its zero value
func checkRequiredFields(index int, item []byte) error {
	for _, field := range models.StockReportFields {
		v := gjson.GetBytes(item, field)
		if !v.Exists() || v.Type == gjson.Null {
			return newError(KindSchemaMismatch, "report %d: missing field %q", index, field)
		}
	}
	return nil
}

// validateReport applies the per-field rules (enums, key factor count, timestamps)
func validateReport(index int, r *models.StockReport) error {
	err := reportValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return newError(KindSchemaMismatch, "report %d (%s): field %q failed %q with value %v",
			index, r.Ticker, fe.Field(), fe.Tag(), fe.Value())
	}
	return &Error{Kind: KindSchemaMismatch, Message: fmt.Sprintf("report %d", index), Err: err}
}
