// Package serializers maps entities to and from their JSON wire form and
// validates incoming payloads field by field.
package serializers

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

// NonFieldErrors collects messages that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

// Validation messages.
const (
	MsgRequired    = "This field is required."
	MsgInvalidType = "Incorrect type."
	MsgDateTime    = "Enter a valid date/time."
	MsgUUID        = "Enter a valid UUID."
	MsgURL         = "Enter a valid URL."
	MsgReadOnly    = "This field cannot be changed."
	MsgMalformed   = "Malformed request body."
)

// Decode reads one JSON document from r into v. Syntax and type errors are
// reported as *common.ValidationError.
func Decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return common.FieldError(typeErr.Field, MsgInvalidType)
		}
		return common.FieldError(NonFieldErrors, MsgMalformed)
	}
	return nil
}

// NullBool is a nullable boolean that remembers whether its key was present
// in the payload, so that an explicit null can be told apart from omission.
type NullBool struct {
	Set   bool
	Value *bool
}

func (b *NullBool) UnmarshalJSON(data []byte) error {
	b.Set = true
	return json.Unmarshal(data, &b.Value)
}

// dateTime parses a required or optional date/time field into verr.
func dateTime(verr *common.ValidationError, field string, raw *string, required bool) time.Time {
	if raw == nil || *raw == "" {
		if required {
			verr.Add(field, MsgRequired)
		}
		return time.Time{}
	}
	ts, ok := query.ParseTime(*raw)
	if !ok {
		verr.Add(field, MsgDateTime)
	}
	return ts
}

func requireString(verr *common.ValidationError, field string, v *string) string {
	if v == nil || *v == "" {
		verr.Add(field, MsgRequired)
		return ""
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
